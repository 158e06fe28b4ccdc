package roles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildReportPercentages(t *testing.T) {
	counters := make(Counters)
	counters.Set("Alice", Starter, 2)
	counters.Set("Bob", Starter, 1)
	counters.Set("Alice", Joker, 0)
	counters.Set("Bob", Joker, 5)

	report := BuildReport(counters, "Alice", "Bob", nil)

	require.Equal(t, "Alice", report.You)
	require.Equal(t, "Bob", report.Them)
	require.Len(t, report.Entries, len(DisplayOrder))

	byRole := make(map[string]Entry, len(report.Entries))
	for _, e := range report.Entries {
		byRole[e.Role] = e
	}

	require.InDelta(t, 66.7, byRole[Starter].YouPct, 0.01)
	require.InDelta(t, 33.3, byRole[Starter].ThemPct, 0.01)
	require.InDelta(t, 0, byRole[Joker].YouPct, 0.01)
	require.InDelta(t, 100, byRole[Joker].ThemPct, 0.01)
}

func TestBuildReportZeroTotal(t *testing.T) {
	report := BuildReport(make(Counters), "Alice", "Bob", nil)

	for _, e := range report.Entries {
		require.Zero(t, e.YouPct, "role %s", e.Role)
		require.Zero(t, e.ThemPct, "role %s", e.Role)
	}
}

func TestBuildReportPercentagesSumTo100(t *testing.T) {
	counters := make(Counters)
	counters.Set("Alice", Snubber, 1)
	counters.Set("Bob", Snubber, 2)
	counters.Set("Alice", Listener, 7)
	counters.Set("Bob", Listener, 13)

	report := BuildReport(counters, "Alice", "Bob", nil)

	for _, e := range report.Entries {
		total := counters.Get("Alice", e.Role) + counters.Get("Bob", e.Role)
		if total == 0 {
			continue
		}

		require.InDelta(t, 100, e.YouPct+e.ThemPct, 0.1, "role %s", e.Role)
	}
}

func TestBuildReportFixedOrder(t *testing.T) {
	report := BuildReport(make(Counters), "A", "B", nil)

	for i, e := range report.Entries {
		require.Equal(t, DisplayOrder[i], e.Role)
		require.Equal(t, DisplayName(e.Role), e.Name)
	}
}

func TestBuildReportExplanationFallback(t *testing.T) {
	explanations := map[string]string{Joker: "Bob carries the comedy in this chat."}

	report := BuildReport(make(Counters), "Alice", "Bob", explanations)

	byRole := make(map[string]Entry)
	for _, e := range report.Entries {
		byRole[e.Role] = e
	}

	require.Equal(t, "Bob carries the comedy in this chat.", byRole[Joker].Explanation)
	require.Equal(t, Description(Starter), byRole[Starter].Explanation)
}
