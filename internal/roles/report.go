package roles

import "math"

// Entry is one role row in a report.
type Entry struct {
	Role        string
	Name        string
	YouPct      float64
	ThemPct     float64
	Explanation string
}

// Report is the final percentage breakdown for two participants, one entry
// per role in DisplayOrder.
type Report struct {
	You     string
	Them    string
	Entries []Entry
}

// BuildReport reads the two participants' tallies out of counters and
// normalizes each role to percentages. A role nobody scored yields 0/0
// rather than a division error. Missing explanations fall back to the static
// role description.
func BuildReport(counters Counters, you, them string, explanations map[string]string) *Report {
	report := &Report{
		You:     you,
		Them:    them,
		Entries: make([]Entry, 0, len(DisplayOrder)),
	}

	for _, role := range DisplayOrder {
		yours := counters.Get(you, role)
		theirs := counters.Get(them, role)
		total := yours + theirs

		var youPct, themPct float64
		if total > 0 {
			youPct = round1(float64(yours) / float64(total) * 100)
			themPct = round1(float64(theirs) / float64(total) * 100)
		}

		explanation := explanations[role]
		if explanation == "" {
			explanation = Description(role)
		}

		report.Entries = append(report.Entries, Entry{
			Role:        role,
			Name:        DisplayName(role),
			YouPct:      youPct,
			ThemPct:     themPct,
			Explanation: explanation,
		})
	}

	return report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
