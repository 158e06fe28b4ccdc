// Package roles scores parsed chat messages against a fixed set of
// relationship roles and aggregates raw counts into a percentage report.
package roles

// Role keys. The set is closed; DisplayOrder fixes report ordering.
const (
	Starter  = "starter"
	Snubber  = "snubber"
	Romantic = "romantic"
	Trouble  = "trouble"
	Fault    = "fault"
	Listener = "listener"
	Joker    = "joker"
)

// DisplayOrder is the fixed order roles appear in reports, independent of
// counter map iteration.
var DisplayOrder = []string{Starter, Snubber, Romantic, Trouble, Fault, Listener, Joker}

var displayNames = map[string]string{
	Starter:  "Conversation Starter",
	Snubber:  "Snubber",
	Romantic: "Romantic One",
	Trouble:  "Trouble One",
	Fault:    "At Fault",
	Listener: "Listener",
	Joker:    "Joker",
}

// baseDescriptions are the static role explanations used whenever a remote
// explanation is unavailable.
var baseDescriptions = map[string]string{
	Starter:  "Conversation Starter: Initiates conversations after long silences.",
	Snubber:  "Snubber: Often delays responses or gives short replies.",
	Romantic: "Romantic One: Uses affectionate language or emojis.",
	Trouble:  "Trouble One: Sarcastic or teasing messages.",
	Fault:    "At Fault: Messages with blame or accusations.",
	Listener: "Listener: Asks questions and shows interest in others.",
	Joker:    "Joker: Uses humor and makes jokes frequently.",
}

// IsValid reports whether key is one of the closed role keys.
func IsValid(key string) bool {
	_, ok := displayNames[key]
	return ok
}

// DisplayName returns the human-readable name for a role key.
func DisplayName(key string) string {
	return displayNames[key]
}

// Description returns the static fallback explanation for a role key.
func Description(key string) string {
	return baseDescriptions[key]
}

// Counters tallies per-sender, per-role message counts. Counts are recorded
// for every sender seen in the log; report building reads out only the two
// selected participants.
type Counters map[string]map[string]int

// Add increments sender's tally for role by n, creating entries as needed.
func (c Counters) Add(sender, role string, n int) {
	m, ok := c[sender]
	if !ok {
		m = make(map[string]int, len(DisplayOrder))
		c[sender] = m
	}

	m[role] += n
}

// Set overwrites sender's tally for role.
func (c Counters) Set(sender, role string, n int) {
	m, ok := c[sender]
	if !ok {
		m = make(map[string]int, len(DisplayOrder))
		c[sender] = m
	}

	m[role] = n
}

// Get returns sender's tally for role, zero when absent.
func (c Counters) Get(sender, role string) int {
	return c[sender][role]
}
