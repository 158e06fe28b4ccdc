// Package chatlog parses exported WhatsApp chat logs into ordered message
// sequences. Only single-line messages are recognized; a body containing
// embedded newlines is truncated at the first line break, which is a
// documented limitation of the export format handling.
package chatlog

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/betweenlines/betweenlines/internal/observability"
)

// ErrFormat is returned when the input does not yield a usable conversation.
var ErrFormat = errors.New("chat must contain at least two participants")

// Message is a single parsed chat line. Messages are immutable once parsed
// and keep the order of appearance in the source file.
type Message struct {
	Timestamp time.Time
	Sender    string
	Body      string
}

// headerPattern pairs a line regexp with the time layout its timestamp
// capture group parses with. Patterns are tried in order, first match wins.
type headerPattern struct {
	re     *regexp.Regexp
	layout string
	// upperMeridiem normalizes the captured timestamp so the layout's
	// am/pm token matches regardless of export casing.
	upperMeridiem bool
}

// Newer exports put a narrow no-break space (U+202F) or a no-break space
// (U+00A0) before the meridiem. RE2's \s is ASCII-only, so the patterns name
// those characters explicitly.
var headerPatterns = []headerPattern{
	// Android export: 2/1/2024, 9:15 pm - Alice: hello
	{
		re:     regexp.MustCompile(`(?i)^(\d{1,2}/\d{1,2}/\d{4}, \d{1,2}:\d{2}[\s\x{202F}\x{00A0}]*[ap]m) - (.+?): (.+)`),
		layout: "2/1/2006, 3:04 pm",
	},
	// iOS export: [1/2/24, 9:15:03 PM] Alice: hello
	{
		re:            regexp.MustCompile(`(?i)^\[(\d{1,2}/\d{1,2}/\d{2}, \d{1,2}:\d{2}:\d{2}[\s\x{202F}\x{00A0}]*[ap]m)\] (.+?): (.+)`),
		layout:        "1/2/06, 3:04:05 PM",
		upperMeridiem: true,
	},
}

// quickCheckRe is a cheap shape test for a WhatsApp-style timestamp.
var quickCheckRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}`)

// preValidateWindow is how much of the input QuickCheck inspects.
const preValidateWindow = 1024

// Parse turns raw export text into the ordered message sequence and the set
// of distinct senders, in order of first appearance. Lines that match no
// header pattern, and header-shaped lines whose timestamp fails to parse,
// are dropped silently. Fewer than two distinct senders is ErrFormat.
func Parse(text string) ([]Message, []string, error) {
	var (
		messages     []Message
		participants []string
	)

	seen := make(map[string]struct{})

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		msg, ok := parseLine(line)
		if !ok {
			observability.ParseDroppedLines.Inc()
			continue
		}

		messages = append(messages, msg)

		if _, dup := seen[msg.Sender]; !dup {
			seen[msg.Sender] = struct{}{}
			participants = append(participants, msg.Sender)
		}
	}

	if len(participants) < 2 {
		return nil, nil, ErrFormat
	}

	return messages, participants, nil
}

func parseLine(line string) (Message, bool) {
	for _, p := range headerPatterns {
		groups := p.re.FindStringSubmatch(line)
		if groups == nil {
			continue
		}

		stamp := normalizeSpaces(groups[1])
		if p.upperMeridiem {
			stamp = strings.ToUpper(stamp)
		} else {
			stamp = strings.ToLower(stamp)
		}

		ts, err := time.Parse(p.layout, stamp)
		if err != nil {
			// Header-shaped but unparsable: noise, not an error.
			return Message{}, false
		}

		return Message{Timestamp: ts, Sender: groups[2], Body: groups[3]}, true
	}

	return Message{}, false
}

// normalizeSpaces collapses whitespace runs so layouts with a single space
// before the meridiem accept exports that use none or several, including the
// narrow no-break space some exports put there.
func normalizeSpaces(s string) string {
	s = strings.ReplaceAll(s, "\u202f", " ")
	s = strings.ReplaceAll(s, "\u00a0", " ")

	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' })

	out := strings.Join(fields, " ")

	// Re-insert the space strptime-style layouts need between time and
	// meridiem when the export glues them together ("9:15pm").
	if i := len(out) - 2; i > 0 && (out[i] == 'a' || out[i] == 'p' || out[i] == 'A' || out[i] == 'P') && out[i-1] != ' ' {
		out = out[:i] + " " + out[i:]
	}

	return out
}

// QuickCheck reports whether the first kilobyte of content looks like a
// WhatsApp export. It is a cheap pre-validation gate run before full parsing.
func QuickCheck(content []byte) bool {
	if len(content) > preValidateWindow {
		content = content[:preValidateWindow]
	}

	return quickCheckRe.Match(content)
}
