package consent

// Decision is the outcome of the consent protocol for one question.
type Decision int

const (
	// Skip proceeds without asking.
	Skip Decision = iota
	// Prompt asks the operator.
	Prompt
	// FailClosed refuses because nobody can be asked.
	FailClosed
)

func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case Prompt:
		return "prompt"
	case FailClosed:
		return "fail-closed"
	default:
		return "unknown"
	}
}

// Decide reports what to do about a consent question. Nothing is asked when
// consent is not needed or was given up front; otherwise the operator is asked
// if a terminal is attached, and the action is refused if not.
func Decide(needed, preapproved, interactive bool) Decision {
	switch {
	case !needed || preapproved:
		return Skip
	case interactive:
		return Prompt
	default:
		return FailClosed
	}
}
