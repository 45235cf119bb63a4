package domain

// SummaryLatestCount is how many recent processed reports the summary carries.
const SummaryLatestCount = 5

// Summary is the authority-dashboard rollup: triage counts, source counts,
// and the most recent processed (non-new) reports.
type Summary struct {
	KPICounts       map[Status]int `json:"kpi_counts"`
	SourceCounts    map[Source]int `json:"source_counts"`
	LatestProcessed []Report       `json:"latest_processed_reports"`
}

// NewSummary returns a Summary with every known status and source key
// present and zeroed, so the dashboard never sees missing keys.
func NewSummary() Summary {
	return Summary{
		KPICounts: map[Status]int{
			StatusVerified:    0,
			StatusActionTaken: 0,
			StatusFalseAlarm:  0,
		},
		SourceCounts: map[Source]int{
			SourceCrowdsource: 0,
			SourceSocialMedia: 0,
		},
		LatestProcessed: []Report{},
	}
}
