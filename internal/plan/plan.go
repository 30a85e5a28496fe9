package plan

// Step is one named tool invocation with declared inputs and an informal,
// human-readable success criterion. Steps are value types; treat them as
// immutable once a plan is handed to the policy gate.
type Step struct {
	Description     string         `json:"description"`
	Tool            string         `json:"tool"`
	Inputs          map[string]any `json:"inputs"`
	SuccessCriteria string         `json:"success_criteria"`
}

// Plan is an ordered sequence of steps to fulfill a user request.
type Plan struct {
	Steps []Step `json:"steps"`
}
