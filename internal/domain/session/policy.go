package session

type Outcome string

const (
	OutcomeDeclined Outcome = "DECLINED"
	OutcomeSuccess  Outcome = "SUCCESS"
)

// OutcomePolicy maps an attempt number to the outcome shown once payment is confirmed.
type OutcomePolicy func(attemptNumber int) Outcome

// DeclineFirstAttempt declines the first attempt and accepts every later one.
func DeclineFirstAttempt(attemptNumber int) Outcome {
	if attemptNumber <= 1 {
		return OutcomeDeclined
	}
	return OutcomeSuccess
}

func AlwaysSucceed(int) Outcome {
	return OutcomeSuccess
}

// PolicyByName resolves a configured policy name. Unknown names fall back to DeclineFirstAttempt.
func PolicyByName(name string) OutcomePolicy {
	switch name {
	case "always-succeed":
		return AlwaysSucceed
	default:
		return DeclineFirstAttempt
	}
}
