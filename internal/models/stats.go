package models

// StatusBreakdown counts one entity per status. Every known status is present, zero-filled.
type StatusBreakdown struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// NewStatusBreakdown folds GROUP BY rows over the closed status set.
func NewStatusBreakdown[S ~string](states []S, rows []StatusCount) StatusBreakdown {
	b := StatusBreakdown{Counts: make(map[string]int, len(states))}
	for _, s := range states {
		b.Counts[string(s)] = 0
	}
	for _, row := range rows {
		if _, known := b.Counts[row.Status]; !known {
			continue
		}
		b.Counts[row.Status] += row.Count
		b.Total += row.Count
	}
	return b
}

// PlatformStats is the admin overview of the marketplace.
type PlatformStats struct {
	Teachers     StatusBreakdown `json:"teachers"`
	Requests     StatusBreakdown `json:"requests"`
	Appointments StatusBreakdown `json:"appointments"`
	Parents      int             `json:"parents"`
}
