package collector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ToolSpec declares one catalogue tool and its external dependencies.
// The catalogue is static: tool availability is derived per collection,
// never stored.
type ToolSpec struct {
	Name     string
	Category ToolCategory
	Deps     []DepSpec
}

// DepSpec declares one external executable dependency. Required
// dependencies make the tool unavailable when missing; optional ones only
// degrade it.
type DepSpec struct {
	Name       string
	Executable string
	Optional   bool
}

// defaultCatalogue enumerates the review pipeline's tools grouped by
// category. Tools without executable dependencies are always available.
func defaultCatalogue() []ToolSpec {
	return []ToolSpec{
		{Name: "pubmed-search", Category: CategoryDatabase},
		{Name: "trial-registry", Category: CategoryDatabase},
		{Name: "reference-dedupe", Category: CategoryCitation},
		{Name: "citation-graph", Category: CategoryCitation},
		{Name: "meta-analysis", Category: CategoryStatistics, Deps: []DepSpec{
			{Name: "R engine", Executable: "Rscript"},
		}},
		{Name: "doc-convert", Category: CategoryDocument, Deps: []DepSpec{
			{Name: "pandoc", Executable: "pandoc", Optional: true},
		}},
		{Name: "grade-assessment", Category: CategoryQuality},
	}
}

// collectTools probes the catalogue. Each tool's dependencies are probed
// under their own timeout; tools probe concurrently so one slow probe
// bounds overall latency instead of summing.
func (c *Collector) collectTools(ctx context.Context) []ToolStatus {
	statuses := make([]ToolStatus, len(c.catalogue))

	var wg sync.WaitGroup
	for i, spec := range c.catalogue {
		wg.Add(1)
		go func(i int, spec ToolSpec) {
			defer wg.Done()
			statuses[i] = c.checkTool(ctx, spec)
		}(i, spec)
	}
	wg.Wait()

	return statuses
}

// checkTool derives one tool's state from its dependency probes.
func (c *Collector) checkTool(ctx context.Context, spec ToolSpec) ToolStatus {
	status := ToolStatus{
		Name:        spec.Name,
		Category:    spec.Category,
		State:       ToolAvailable,
		LastChecked: time.Now(),
	}

	if len(spec.Deps) == 0 {
		return status
	}

	var missingRequired, missingOptional []string
	var slowest time.Duration

	for _, dep := range spec.Deps {
		res := c.prober.Check(ctx, dep.Executable)
		if res.ResponseTime > slowest {
			slowest = res.ResponseTime
		}
		status.Dependencies = append(status.Dependencies, DependencyStatus{
			Name:      dep.Name,
			Available: res.Available,
			Version:   res.Version,
			Optional:  dep.Optional,
		})
		if !res.Available {
			if dep.Optional {
				missingOptional = append(missingOptional, dep.Name)
			} else {
				missingRequired = append(missingRequired, dep.Name)
			}
		}
	}

	status.ResponseTime = slowest

	switch {
	case len(missingRequired) > 0:
		status.State = ToolUnavailable
		status.Error = fmt.Sprintf("required dependency unavailable: %s", strings.Join(missingRequired, ", "))
	case len(missingOptional) > 0:
		status.State = ToolDegraded
		status.Error = fmt.Sprintf("optional dependency missing: %s (core function still usable)", strings.Join(missingOptional, ", "))
	}

	return status
}
