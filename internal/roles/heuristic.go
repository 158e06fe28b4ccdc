package roles

import (
	"regexp"
	"strings"
	"time"

	"github.com/betweenlines/betweenlines/internal/chatlog"
)

// Gap thresholds for the timing rules.
const (
	starterGap = 8 * time.Hour
	snubberGap = 6 * time.Hour
)

// shortMessageTokens is the token count below which a reply counts as short.
const shortMessageTokens = 4

var (
	affectionEmoji    = []string{"❤️", "🥰", "😘"}
	affectionateWords = []string{"love", "darling", "sweetheart"}
	answerWords       = []string{"yes", "no", "maybe"}
	blamePhrases      = []string{"you always", "you never", "it's your fault"}
	humorMarkers      = []string{"lol", "haha", "😂", "🤣"}
)

// passiveAggressiveRe matches a dismissive word trailed by an ellipsis later
// in the same message ("sure...", "okay, whatever.....").
var passiveAggressiveRe = regexp.MustCompile(`(?i)\b(sure|okay|whatever)\b.*\.{3,}`)

// Score walks the messages once and tallies role counts for every sender.
// It is deterministic: same messages in, same counters out. The pass is
// inherently sequential since the starter and snubber rules depend on the
// immediately preceding message.
func Score(messages []chatlog.Message) Counters {
	counters := make(Counters)

	var (
		prevTimestamp time.Time
		prevSender    string
		prevBody      string
	)

	for _, msg := range messages {
		lower := strings.ToLower(msg.Body)

		if !prevTimestamp.IsZero() && msg.Timestamp.Sub(prevTimestamp) >= starterGap {
			counters.Add(msg.Sender, Starter, 1)
		}

		if prevSender != "" && prevSender != msg.Sender {
			if msg.Timestamp.Sub(prevTimestamp) > snubberGap {
				counters.Add(msg.Sender, Snubber, 1)
			}

			if len(strings.Fields(msg.Body)) < shortMessageTokens {
				counters.Add(msg.Sender, Snubber, 1)
			}

			if strings.Contains(prevBody, "?") && !containsAny(lower, answerWords) {
				counters.Add(msg.Sender, Snubber, 1)
			}
		}

		if containsAny(msg.Body, affectionEmoji) {
			counters.Add(msg.Sender, Romantic, 1)
		}

		if containsAny(lower, affectionateWords) {
			counters.Add(msg.Sender, Romantic, 1)
		}

		if passiveAggressiveRe.MatchString(msg.Body) {
			counters.Add(msg.Sender, Trouble, 1)
		}

		if containsAny(lower, blamePhrases) {
			counters.Add(msg.Sender, Fault, 1)
		}

		if strings.Contains(msg.Body, "?") {
			counters.Add(msg.Sender, Listener, 1)
		}

		if containsAny(lower, humorMarkers) {
			counters.Add(msg.Sender, Joker, 1)
		}

		prevTimestamp = msg.Timestamp
		prevSender = msg.Sender
		prevBody = msg.Body
	}

	return counters
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}

	return false
}
