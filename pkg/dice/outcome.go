package dice

// Outcome is one of the five roll categories.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
	OutcomeCriticalSuccess
	OutcomeMessyCriticalSuccess
	OutcomeMessyFailure
)

// Outcomes lists every category in classification priority order.
var Outcomes = []Outcome{
	OutcomeMessyFailure,
	OutcomeMessyCriticalSuccess,
	OutcomeCriticalSuccess,
	OutcomeSuccess,
	OutcomeFailure,
}

var outcomeLabels = map[Outcome]string{
	OutcomeFailure:              "failure",
	OutcomeSuccess:              "success",
	OutcomeCriticalSuccess:      "critical success",
	OutcomeMessyCriticalSuccess: "messy critical success",
	OutcomeMessyFailure:         "messy failure",
}

func (o Outcome) String() string {
	if label, ok := outcomeLabels[o]; ok {
		return label
	}
	return "unknown"
}

// Messy reports whether a hunger die complicated the outcome.
func (o Outcome) Messy() bool {
	return o == OutcomeMessyFailure || o == OutcomeMessyCriticalSuccess
}

// Classify picks the outcome for a tally. Rules are checked in order and
// the first match wins.
func Classify(t Tally, difficulty int) Outcome {
	met := t.Successes >= difficulty
	switch {
	case !met && t.Hunger.Failures > 0:
		return OutcomeMessyFailure
	case met && t.Criticals >= 2 && t.Hunger.Criticals > 0:
		return OutcomeMessyCriticalSuccess
	case met && t.Criticals >= 2:
		return OutcomeCriticalSuccess
	case met && t.Criticals < 2:
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}
