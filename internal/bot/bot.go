// Package bot is the Telegram front-end: users send an exported chat as a
// document, pick "you" and "them" from inline keyboards, and get the role
// report back as a message.
package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/betweenlines/betweenlines/internal/analyzer"
	"github.com/betweenlines/betweenlines/internal/chatlog"
	"github.com/betweenlines/betweenlines/internal/config"
	"github.com/betweenlines/betweenlines/internal/observability"
	"github.com/betweenlines/betweenlines/internal/upload"
)

const (
	surfaceBot = "bot"

	updateTimeoutSeconds = 60
	downloadTimeout      = 30 * time.Second
)

// Callback data prefixes for the selection keyboards.
const (
	CallbackPrefixYou  = "you:"
	CallbackPrefixThem = "them:"
)

// Command names.
const (
	CmdStart  = "start"
	CmdHelp   = "help"
	CmdCancel = "cancel"
)

const helpText = `Send me an exported WhatsApp chat (.txt or .zip, "Without media") and I'll break down who plays which role in the conversation.

/cancel forgets the chat you sent.`

type Bot struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	api      *tgbotapi.BotAPI
	sessions *sessionStore
	http     *http.Client
	logger   *zerolog.Logger
}

func New(cfg *config.Config, a *analyzer.Analyzer, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("creating bot API: %w", err)
	}

	return &Bot{
		cfg:      cfg,
		analyzer: a,
		api:      api,
		sessions: newSessionStore(),
		http:     &http.Client{Timeout: downloadTimeout},
		logger:   logger,
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("bot run context canceled: %w", ctx.Err())
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}

	if !msg.IsCommand() {
		b.reply(msg.Chat.ID, "Send me an exported chat file, or /help.")
		return
	}

	b.logger.Info().Str("command", msg.Command()).Int64("chat_id", msg.Chat.ID).Msg("Handling command")

	switch msg.Command() {
	case CmdStart, CmdHelp:
		b.reply(msg.Chat.ID, helpText)
	case CmdCancel:
		b.sessions.delete(msg.Chat.ID)
		b.reply(msg.Chat.ID, "Forgotten. Send another export when you're ready.")
	default:
		b.reply(msg.Chat.ID, "Unknown command")
	}
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	doc := msg.Document

	if int64(doc.FileSize) > b.cfg.MaxUploadBytes {
		observability.UploadsRejected.WithLabelValues("size").Inc()
		b.reply(chatID, "That file is too large. Max 10MB allowed.")

		return
	}

	data, err := b.download(ctx, doc.FileID)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("downloading document")
		b.reply(chatID, "I couldn't download that file, please try again.")

		return
	}

	text, err := upload.ExtractText(data, doc.FileName, b.cfg.MaxUploadBytes, chatlog.QuickCheck)
	if err != nil {
		observability.UploadsRejected.WithLabelValues("format").Inc()
		b.reply(chatID, "That doesn't look like a WhatsApp export. Use Export chat > Without media.")

		return
	}

	messages, participants, err := chatlog.Parse(text)
	if err != nil {
		observability.AnalysesTotal.WithLabelValues(surfaceBot, "format_error").Inc()
		b.reply(chatID, "Please provide a valid export: "+err.Error())

		return
	}

	sort.Strings(participants)

	b.sessions.put(chatID, &session{
		step:         stepChooseYou,
		messages:     messages,
		participants: participants,
	})

	b.sendKeyboard(chatID, "Who are you in this chat?", participants, CallbackPrefixYou, "")
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}

	chatID := query.Message.Chat.ID

	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("acking callback")
	}

	sess, ok := b.sessions.get(chatID)
	if !ok {
		b.reply(chatID, "Session expired, send the export again.")
		return
	}

	switch {
	case strings.HasPrefix(query.Data, CallbackPrefixYou):
		b.handleYouChosen(chatID, sess, strings.TrimPrefix(query.Data, CallbackPrefixYou))
	case strings.HasPrefix(query.Data, CallbackPrefixThem):
		b.handleThemChosen(ctx, chatID, sess, strings.TrimPrefix(query.Data, CallbackPrefixThem))
	}
}

func (b *Bot) handleYouChosen(chatID int64, sess *session, data string) {
	if sess.step != stepChooseYou {
		return
	}

	name, ok := participantByIndex(sess.participants, data)
	if !ok {
		return
	}

	sess.you = name
	sess.step = stepChooseThem

	b.sendKeyboard(chatID, "And who is the other person?", sess.participants, CallbackPrefixThem, name)
}

func (b *Bot) handleThemChosen(ctx context.Context, chatID int64, sess *session, data string) {
	if sess.step != stepChooseThem {
		return
	}

	them, ok := resolveThem(sess, data)
	if !ok {
		// Stale or racing keyboard tap; the session stays at this step so
		// a valid tap still works.
		b.reply(chatID, "Pick the other person in the chat.")
		return
	}

	report, err := b.analyzer.Analyze(ctx, sess.messages, sess.you, them)
	if err != nil {
		observability.AnalysesTotal.WithLabelValues(surfaceBot, "error").Inc()
		b.reply(chatID, "Analysis failed: "+err.Error())
		b.sessions.delete(chatID)

		return
	}

	observability.AnalysesTotal.WithLabelValues(surfaceBot, "ok").Inc()
	b.sessions.delete(chatID)

	out := tgbotapi.NewMessage(chatID, formatReport(report))
	out.ParseMode = tgbotapi.ModeHTML

	if _, err := b.api.Send(out); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("sending report")
	}
}

// sendKeyboard shows one button per participant, skipping exclude. Callback
// data carries the participant index since names can exceed the 64-byte
// callback payload limit.
func (b *Bot) sendKeyboard(chatID int64, prompt string, participants []string, prefix, exclude string) {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i, name := range participants {
		if name == exclude {
			continue
		}

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, prefix+strconv.Itoa(i)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("sending keyboard")
	}
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolving file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, b.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}

	return data, nil
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("sending reply")
	}
}

// resolveThem validates a "them" tap against the session: the index must be
// in range and must not name the participant already chosen as "you".
func resolveThem(sess *session, data string) (string, bool) {
	name, ok := participantByIndex(sess.participants, data)
	if !ok || name == sess.you {
		return "", false
	}

	return name, true
}

func participantByIndex(participants []string, data string) (string, bool) {
	i, err := strconv.Atoi(data)
	if err != nil || i < 0 || i >= len(participants) {
		return "", false
	}

	return participants[i], true
}
