package models

// Insight is one proactive financial observation. Lower priority values are
// selected preferentially. Insights are generated and discarded per request.
type Insight struct {
	Priority float64
	Text     string
}
