// Package cli implements the revwatch command-line interface.
//
// Commands:
//
//	revwatch status            - One-shot status report
//	revwatch status --refresh  - Re-render the report on an interval
//	revwatch watch             - Full-screen live dashboard
//	revwatch alerts            - List active alerts
//	revwatch alerts ack [id]   - Acknowledge an alert
//	revwatch version           - Print version information
package cli
