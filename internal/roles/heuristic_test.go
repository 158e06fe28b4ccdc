package roles

import (
	"testing"
	"time"

	"github.com/betweenlines/betweenlines/internal/chatlog"
)

func msg(ts time.Time, sender, body string) chatlog.Message {
	return chatlog.Message{Timestamp: ts, Sender: sender, Body: body}
}

var base = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

func TestScoreShortJokeReply(t *testing.T) {
	counters := Score([]chatlog.Message{
		msg(base, "Alice", "Hi"),
		msg(base.Add(time.Minute), "Bob", "hey lol"),
	})

	if got := counters.Get("Bob", Joker); got != 1 {
		t.Errorf("Bob joker = %d, want 1", got)
	}

	if got := counters.Get("Bob", Snubber); got != 1 {
		t.Errorf("Bob snubber = %d, want 1", got)
	}

	for _, role := range DisplayOrder {
		if role == Joker || role == Snubber {
			continue
		}

		if got := counters.Get("Bob", role); got != 0 {
			t.Errorf("Bob %s = %d, want 0", role, got)
		}
	}

	for _, role := range DisplayOrder {
		if got := counters.Get("Alice", role); got != 0 {
			t.Errorf("Alice %s = %d, want 0", role, got)
		}
	}
}

func TestScoreOvernightDismissal(t *testing.T) {
	counters := Score([]chatlog.Message{
		msg(time.Date(2024, 2, 1, 21, 0, 0, 0, time.UTC), "Alice", "Why are you always like this?"),
		msg(time.Date(2024, 2, 2, 6, 0, 0, 0, time.UTC), "Bob", "sure..."),
	})

	if got := counters.Get("Bob", Starter); got != 1 {
		t.Errorf("Bob starter = %d, want 1", got)
	}

	if got := counters.Get("Bob", Trouble); got != 1 {
		t.Errorf("Bob trouble = %d, want 1", got)
	}

	if got := counters.Get("Alice", Fault); got != 1 {
		t.Errorf("Alice fault = %d, want 1", got)
	}

	if got := counters.Get("Alice", Listener); got != 1 {
		t.Errorf("Alice listener = %d, want 1", got)
	}
}

func TestScoreSnubberRulesStack(t *testing.T) {
	// All three snubber triggers fire on the same reply: >6h gap after a
	// question, a short body, and no yes/no/maybe in it.
	counters := Score([]chatlog.Message{
		msg(base, "Alice", "are you coming tonight?"),
		msg(base.Add(7*time.Hour), "Bob", "busy"),
	})

	if got := counters.Get("Bob", Snubber); got != 3 {
		t.Errorf("Bob snubber = %d, want 3", got)
	}
}

func TestScoreShortMessageSameSender(t *testing.T) {
	// Short-message rule needs a sender change; a follow-up from the same
	// sender never snubs.
	counters := Score([]chatlog.Message{
		msg(base, "Alice", "so I was thinking about the weekend plans"),
		msg(base.Add(time.Minute), "Alice", "nevermind"),
	})

	if got := counters.Get("Alice", Snubber); got != 0 {
		t.Errorf("Alice snubber = %d, want 0", got)
	}
}

func TestScoreShortMessageOtherSender(t *testing.T) {
	counters := Score([]chatlog.Message{
		msg(base, "Alice", "here is a longer message with plenty of words"),
		msg(base.Add(time.Minute), "Bob", "ok fine then"),
	})

	if got := counters.Get("Bob", Snubber); got != 1 {
		t.Errorf("Bob snubber = %d, want at least the short-message hit", got)
	}
}

func TestScoreRomanticStacks(t *testing.T) {
	counters := Score([]chatlog.Message{
		msg(base, "Alice", "good morning"),
		msg(base.Add(time.Minute), "Bob", "love you ❤️ have a great day sweetheart"),
	})

	if got := counters.Get("Bob", Romantic); got != 2 {
		t.Errorf("Bob romantic = %d, want 2 (emoji and word rules both fire)", got)
	}
}

func TestScoreAnsweredQuestionNotSnubbed(t *testing.T) {
	counters := Score([]chatlog.Message{
		msg(base, "Alice", "did you feed the cat?"),
		msg(base.Add(time.Minute), "Bob", "yes I did it this morning"),
	})

	if got := counters.Get("Bob", Snubber); got != 0 {
		t.Errorf("Bob snubber = %d, want 0", got)
	}
}

func TestScoreFirstMessageNeverStarts(t *testing.T) {
	counters := Score([]chatlog.Message{
		msg(base, "Alice", "hello after a long silence"),
		msg(base.Add(time.Minute), "Bob", "welcome back to the conversation"),
	})

	if got := counters.Get("Alice", Starter); got != 0 {
		t.Errorf("Alice starter = %d, want 0 (no prior timestamp)", got)
	}
}

func TestScoreCountsThirdSenders(t *testing.T) {
	// Counters track every sender seen; selection happens at report time.
	counters := Score([]chatlog.Message{
		msg(base, "Alice", "hi all"),
		msg(base.Add(time.Minute), "Carol", "haha hello"),
		msg(base.Add(2*time.Minute), "Bob", "morning everyone, how are you doing?"),
	})

	if got := counters.Get("Carol", Joker); got != 1 {
		t.Errorf("Carol joker = %d, want 1", got)
	}
}

func TestScoreIdempotent(t *testing.T) {
	messages := []chatlog.Message{
		msg(base, "Alice", "are you free later?"),
		msg(base.Add(9*time.Hour), "Bob", "sure whatever..."),
		msg(base.Add(9*time.Hour+time.Minute), "Alice", "you never answer properly"),
	}

	first := Score(messages)
	second := Score(messages)

	for sender, byRole := range first {
		for role, count := range byRole {
			if second.Get(sender, role) != count {
				t.Fatalf("second pass %s/%s = %d, want %d", sender, role, second.Get(sender, role), count)
			}
		}
	}
}

func TestScoreTroublePattern(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{"sure...", 1},
		{"okay, whatever then.....", 1},
		{"Whatever you say...", 1},
		{"sure", 0},
		{"assure you... really", 0},
		{"sure.. only two dots", 0},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			counters := Score([]chatlog.Message{msg(base, "Bob", tt.body)})

			if got := counters.Get("Bob", Trouble); got != tt.want {
				t.Errorf("trouble(%q) = %d, want %d", tt.body, got, tt.want)
			}
		})
	}
}
