package gallery

// Success describes one committed archive entry.
type Success struct {
	Title   string `json:"title"`
	Locator string `json:"url"`
	Action  string `json:"action"` // "created" or "updated"
}

// Report is the ordered batch outcome: one Success or one error message per
// archive entry, in archive order. No aggregation happens here; reporting
// layers consume the lists as-is.
type Report struct {
	Successes []Success `json:"successes"`
	Errors    []string  `json:"errors"`
}

func newReport() *Report {
	return &Report{Successes: []Success{}, Errors: []string{}}
}
