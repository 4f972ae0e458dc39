package model

import "fmt"

// Verdict is the outcome of classifying a single comment.
type Verdict string

const (
	VerdictSpam    Verdict = "spam"
	VerdictHam     Verdict = "ham"
	VerdictUnknown Verdict = "unknown" // Provider down, malformed or ambiguous response.
)

// UnknownPolicy decides what the comment gate does with an unknown verdict.
type UnknownPolicy string

const (
	// UnknownPolicyAllow leaves the approval status untouched, treating
	// unknown exactly like ham.
	UnknownPolicyAllow UnknownPolicy = "allow"

	// UnknownPolicyHold demotes an approved comment to pending so a human
	// reviews it. Other statuses are left untouched.
	UnknownPolicyHold UnknownPolicy = "hold"
)

// ParseUnknownPolicy validates a policy name. An empty name selects UnknownPolicyAllow.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch UnknownPolicy(s) {
	case "", UnknownPolicyAllow:
		return UnknownPolicyAllow, nil
	case UnknownPolicyHold:
		return UnknownPolicyHold, nil
	default:
		return "", fmt.Errorf("unknown policy %q: expected %q or %q", s, UnknownPolicyAllow, UnknownPolicyHold)
	}
}
