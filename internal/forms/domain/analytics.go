package domain

// FieldDistribution is the backend's aggregate for a single field. Counts is
// keyed by option label.
type FieldDistribution struct {
	FieldID     ID             `json:"fieldId"`
	Type        FieldType      `json:"type"`
	Label       Label          `json:"label"`
	Counts      map[string]int `json:"counts,omitempty"`
	Average     *float64       `json:"average,omitempty"`
	Count       int            `json:"count"`
	RecentTexts []string       `json:"recentTexts,omitempty"`
}

// AnalyticsSnapshot is computed by the backend; the client only caches and
// replaces it.
type AnalyticsSnapshot struct {
	FormID         ID                  `json:"formId"`
	Fields         []FieldDistribution `json:"fields"`
	TotalResponses int                 `json:"totalResponses"`
}
