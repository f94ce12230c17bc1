package madgo

// Flow is returned by driver callbacks to direct control flow.
type Flow int

const (
	FlowContinue Flow = iota // proceed normally (default)
	FlowStop                 // terminate the run normally
	FlowBreak                // terminate the run with an error
	FlowIgnore                // skip the current step and retry
)
