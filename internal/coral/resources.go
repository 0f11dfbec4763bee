package coral

// Resource summary statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ResourceItem is one opaque resource exposed by the server. Extraction may
// fail per item; the summariser records the failure instead of aborting.
type ResourceItem interface {
	Details() (map[string]any, error)
}

// ResourceSummary is the diagnostic record produced for a single resource.
// Index is 1-based to match the server's own resource numbering.
type ResourceSummary struct {
	Index   int            `json:"resource"`
	Details map[string]any `json:"details,omitempty"`
	Error   string         `json:"error,omitempty"`
	Status  string         `json:"status"`
}

// SummarizeResources maps every item to a diagnostic record. An item whose
// extraction fails yields a failed record carrying the error text; the batch
// always produces exactly len(items) records.
func SummarizeResources(items []ResourceItem) []ResourceSummary {
	out := make([]ResourceSummary, 0, len(items))
	for i, item := range items {
		details, err := item.Details()
		if err != nil {
			out = append(out, ResourceSummary{
				Index:  i + 1,
				Error:  err.Error(),
				Status: StatusFailed,
			})
			continue
		}
		out = append(out, ResourceSummary{
			Index:   i + 1,
			Details: details,
			Status:  StatusSuccess,
		})
	}
	return out
}
