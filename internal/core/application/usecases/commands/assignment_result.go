package commands

// AssignmentResult classifies the outcome of one assignment attempt.
// Skipped and NoCourierAvailable are informational, not failures: the order
// stays ReadyForPickup and the next sweep reconsiders it.
type AssignmentResult int

const (
	// ResultUnknown represents an undefined outcome and is only returned
	// alongside an error.
	ResultUnknown AssignmentResult = iota

	// ResultAssigned means the order was bound to a courier and a delivery
	// record was created.
	ResultAssigned

	// ResultSkipped means another process won the race: the order is no
	// longer ReadyForPickup, already carries a courier, or the selected
	// courier was claimed between matching and commit.
	ResultSkipped

	// ResultNoCourierAvailable means no eligible courier was found anywhere.
	ResultNoCourierAvailable
)

// String returns the human-readable name of the result.
func (r AssignmentResult) String() string {
	switch r {
	case ResultAssigned:
		return "Assigned"
	case ResultSkipped:
		return "Skipped"
	case ResultNoCourierAvailable:
		return "NoCourierAvailable"
	default:
		return "Unknown"
	}
}
