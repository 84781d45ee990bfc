package research

// Verdict is the categorical classification of a researched person.
type Verdict string

const (
	VerdictSpam        Verdict = "SPAM"
	VerdictLikelySpam  Verdict = "LIKELY SPAM"
	VerdictUnclear     Verdict = "UNCLEAR"
	VerdictLikelyLegit Verdict = "LIKELY LEGIT"
	VerdictLegit       Verdict = "LEGIT"
	VerdictError       Verdict = "ERROR"
)

// Record is one research result. Score is -1 exactly when Verdict is ERROR.
// Never mutated after creation.
type Record struct {
	Name       string
	Verdict    Verdict
	Score      int
	Headline   string
	Reason     string
	RedFlags   []string
	GreenFlags []string
	Raw        string
}

// IsSpam reports whether the verdict falls in the spam class.
func (r Record) IsSpam() bool {
	return r.Verdict == VerdictSpam || r.Verdict == VerdictLikelySpam
}

// IsLegit reports whether the verdict falls in the legitimate class.
func (r Record) IsLegit() bool {
	return r.Verdict == VerdictLegit || r.Verdict == VerdictLikelyLegit
}
