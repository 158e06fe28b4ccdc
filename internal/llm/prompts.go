package llm

import (
	"fmt"
	"strings"

	"github.com/betweenlines/betweenlines/internal/chatlog"
	"github.com/betweenlines/betweenlines/internal/roles"
)

const promptTimeFormat = "2/1/2006, 3:04 pm"

const scorePromptHeader = `Analyze the following WhatsApp chat messages between %s and %s.
For each role, count how many messages from each person fit the description.
Answer with one section per person: a line with the person's name followed by
a colon, then lines of comma-separated role=count pairs.

Roles:
- starter (Conversation Starter): Messages that initiate new conversations after long silences.
- snubber (Snubber): Messages that are delayed, short, or ignore questions.
- romantic (Romantic One): Messages with affectionate language or emojis.
- trouble (Trouble One): Sarcastic, teasing, or passive-aggressive messages.
- fault (At Fault): Messages with blame or accusations.
- listener (Listener): Messages that ask questions and show interest.
- joker (Joker): Messages with humor and jokes.

Messages:
`

func scorePrompt(messages []chatlog.Message, you, them string) string {
	if len(messages) > maxPromptMessages {
		messages = messages[:maxPromptMessages]
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(scorePromptHeader, you, them))

	for _, msg := range messages {
		sb.WriteString(fmt.Sprintf("%s - %s: %s\n", msg.Timestamp.Format(promptTimeFormat), msg.Sender, msg.Body))
	}

	return sb.String()
}

func explainPrompt(role string, samples []string) string {
	return fmt.Sprintf(
		"Analyze these messages for the role '%s'. Provide a one-line human-readable explanation: %s",
		roles.Description(role),
		strings.Join(samples, " | "),
	)
}
