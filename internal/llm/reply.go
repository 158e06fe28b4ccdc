package llm

import (
	"strconv"
	"strings"

	"github.com/betweenlines/betweenlines/internal/roles"
)

// parseScoreReply extracts role counters from free-form model output. It is
// deliberately best-effort: a line naming a participant together with a
// colon switches the current section, subsequent lines are scanned for
// comma-separated key=value pairs, and anything unrecognized is skipped
// rather than treated as an error. A reply yielding no usable line at all
// produces all-zero counters, indistinguishable from a genuine zero score.
func parseScoreReply(text, you, them string) roles.Counters {
	counters := make(roles.Counters)

	for _, participant := range []string{you, them} {
		for _, role := range roles.DisplayOrder {
			counters.Set(participant, role, 0)
		}
	}

	current := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.Contains(line, you) && strings.Contains(line, ":"):
			current = you
		case strings.Contains(line, them) && strings.Contains(line, ":"):
			current = them
		case current != "" && strings.Contains(line, "="):
			scorePairs(line, current, counters)
		}
	}

	return counters
}

func scorePairs(line, participant string, counters roles.Counters) {
	for _, part := range strings.Split(line, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		if !roles.IsValid(key) {
			continue
		}

		count, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}

		counters.Set(participant, key, count)
	}
}
