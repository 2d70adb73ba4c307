package domain

// SiteFiles holds the three payloads extracted from one model response.
// It only lives for the duration of a single generation turn.
type SiteFiles struct {
	Markup  string
	Styling string
	Script  string
}
