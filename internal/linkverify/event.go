package linkverify

import "time"

// BrokenLinkEvent is the JSON payload published for each broken link when
// event publishing is configured, for downstream processing (dashboards,
// issue creation).
type BrokenLinkEvent struct {
	URL        string    `json:"url"`
	SourcePath string    `json:"source_path"`
	Reason     string    `json:"reason"`
	BuildID    string    `json:"build_id"`
	Timestamp  time.Time `json:"timestamp"`
}
