package types

// LinkerPulls maps a symbol name to the object path it must be pulled from.
type LinkerPulls map[string]string

type PullResult struct {
	Symbol       string
	ExpectedPath string
	ActualPath   string
	Status       PullStatus
}

type PullReport struct {
	Results []PullResult
	Hits    []string
	Errors  []string
}

// Failed reports whether the link step has to be rejected.
func (r PullReport) Failed() bool {
	return len(r.Errors) > 0
}
