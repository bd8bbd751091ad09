// Package telegram exposes the churn analysis as a Telegram bot.
// Operators send /analyze with the three customer metrics and the bot replies
// with the risk status, churn probability and retention strategy, formatted
// with MarkdownV2.
//
// Only the configured chat is served; replies are delivered with retry logic
// for reliability against rate limiting and network failures.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/churnoracle/internal/artifact"
	"github.com/rewired-gh/churnoracle/internal/logger"
	"github.com/rewired-gh/churnoracle/internal/models"
	"github.com/rewired-gh/churnoracle/internal/report"
)

// Analyzer is the analysis session the bot answers from.
type Analyzer interface {
	Analyze(in models.CustomerInput) (*report.Report, error)
	Available() bool
	LoadErr() *artifact.LoadError
}

// bot is the subset of *tgbotapi.BotAPI the client uses.
type bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Client serves analysis commands over Telegram
type Client struct {
	bot            bot
	chatID         int64
	analyzer       Analyzer
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration, analyzer Analyzer) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(api, chatID, maxRetries, retryDelayBase, analyzer)
}

func newClient(b bot, chatID string, maxRetries int, retryDelayBase time.Duration, analyzer Analyzer) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            b,
		chatID:         chatIDInt,
		analyzer:       analyzer,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// ListenForCommands polls for updates and answers commands until ctx is done.
func (c *Client) ListenForCommands(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.bot.GetUpdatesChan(u)

	logger.Info("Listening for Telegram commands in chat %d", c.chatID)
	for {
		select {
		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			logger.Info("Telegram listener stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			c.handleUpdate(update)
		}
	}
}

func (c *Client) handleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if msg.Chat.ID != c.chatID {
		logger.Warn("Ignoring message from unauthorized chat %d", msg.Chat.ID)
		return
	}

	reply, ok := c.HandleCommand(msg)
	if !ok {
		return
	}
	if err := c.Send(reply); err != nil {
		logger.Error("Failed to send Telegram reply: %v", err)
	}
}

// HandleCommand returns the MarkdownV2 reply for a command message, or false
// when the message is not a command the bot answers.
func (c *Client) HandleCommand(msg *tgbotapi.Message) (string, bool) {
	if !msg.IsCommand() {
		return "", false
	}

	switch msg.Command() {
	case "start", "help":
		return helpMessage(c.analyzer), true
	case "analyze":
		in, err := parseAnalyzeArgs(msg.CommandArguments())
		if err != nil {
			logger.Debug("Rejected /analyze arguments %q: %v", msg.CommandArguments(), err)
			return escapeMarkdownV2(err.Error()) + "\n\n" + usageLine(), true
		}
		logger.Debug("Handling /analyze for %+v", in)

		r, err := c.analyzer.Analyze(in)
		if err != nil {
			logger.Warn("Analysis unavailable: %v", err)
			return formatUnavailable(c.analyzer, err), true
		}
		return formatReport(r), true
	default:
		return "", false
	}
}

// Send sends a MarkdownV2 message with retry
func (c *Client) Send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// parseAnalyzeArgs parses "<orders> <spend> <items>" and applies the input minimums.
func parseAnalyzeArgs(args string) (models.CustomerInput, error) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return models.CustomerInput{}, errors.New("expected exactly three values: orders, spend, items")
	}

	orders, err := strconv.Atoi(fields[0])
	if err != nil {
		return models.CustomerInput{}, fmt.Errorf("orders must be a whole number, got %q", fields[0])
	}
	spend, err := strconv.ParseFloat(strings.TrimPrefix(fields[1], "$"), 64)
	if err != nil {
		return models.CustomerInput{}, fmt.Errorf("spend must be a number, got %q", fields[1])
	}
	items, err := strconv.Atoi(fields[2])
	if err != nil {
		return models.CustomerInput{}, fmt.Errorf("items must be a whole number, got %q", fields[2])
	}

	in := models.CustomerInput{OrderCount: orders, TotalSpend: spend, UniqueItems: items}
	if err := in.Validate(); err != nil {
		return models.CustomerInput{}, err
	}
	return in, nil
}

// formatReport formats an analysis into a Telegram message
func formatReport(r *report.Report) string {
	statusEmoji := "🟢"
	if r.Prediction.Churn {
		statusEmoji = "🔴"
	}
	strategyEmoji := "ℹ️"
	if r.Recommendation.Urgent {
		strategyEmoji = "⚠️"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *RISK STATUS: %s*\n", statusEmoji, escapeMarkdownV2(r.RiskLabel())))
	sb.WriteString(fmt.Sprintf("Churn Probability: *%s*\n\n", escapeMarkdownV2(r.ProbabilityText())))
	sb.WriteString(fmt.Sprintf("%s *%s*\n", strategyEmoji, escapeMarkdownV2(r.StrategyLine())))
	sb.WriteString(escapeMarkdownV2(r.Recommendation.Action))
	return sb.String()
}

// formatUnavailable explains why no prediction could be made
func formatUnavailable(a Analyzer, err error) string {
	text := report.UnavailableMessage
	if !a.Available() {
		text = artifact.UnavailableMessage + "\n" + report.UnavailableMessage
		if loadErr := a.LoadErr(); loadErr != nil {
			text += fmt.Sprintf("\n(%s artifact %s)", loadErr.Artifact, loadErr.Kind())
		}
	} else if err != nil {
		text += "\n" + err.Error()
	}
	return "❌ " + escapeMarkdownV2(text)
}

func helpMessage(a Analyzer) string {
	var sb strings.Builder
	sb.WriteString("📊 *Customer Churn & Retention Strategy Recommender*\n\n")
	sb.WriteString(usageLine())
	if !a.Available() {
		sb.WriteString("\n\n⚠️ " + escapeMarkdownV2(artifact.UnavailableMessage))
	}
	return sb.String()
}

func usageLine() string {
	return escapeMarkdownV2(fmt.Sprintf("Usage: /analyze <orders> <spend> <items>\nExample: /analyze %d %.1f %d",
		models.DefaultOrderCount, models.DefaultTotalSpend, models.DefaultUniqueItems))
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// \ _ * [ ] ( ) ~ ` > # + - = | { } . !
	var sb strings.Builder
	sb.Grow(len(text))
	for _, char := range text {
		switch char {
		case '\\', '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			sb.WriteRune('\\')
		}
		sb.WriteRune(char)
	}
	return sb.String()
}
