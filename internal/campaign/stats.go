// File: internal/campaign/stats.go
package campaign

// Stats summarizes a connection campaign run.
type Stats struct {
	// Requested counts connection requests sent successfully, inline and
	// via drained profile tabs combined.
	Requested int
	// ProfilesOpened counts follow-only rows opened in background tabs.
	ProfilesOpened int
	// Pages counts result pages processed.
	Pages int
	// QuotaLimit echoes the configured cap, zero for unlimited.
	QuotaLimit int
}

// JobStats summarizes a job application campaign run.
type JobStats struct {
	Discovered int
	Submitted  int
	Failed     int
	Pages      int
	QuotaLimit int
}
