package telegram_bot

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pastebot/internal/config"
	"pastebot/internal/pastestore"
	"pastebot/internal/processor"
)

// Bot is the Telegram gateway: it feeds group messages into the paste
// pipeline and performs the delete/announce actions on its chats.
type Bot struct {
	api       *tgbotapi.BotAPI
	processor *processor.Processor
	cfg       *config.Config
	logger    *zap.Logger
}

// NewBot creates a new Telegram bot instance.
func NewBot(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", botAPI.Self.UserName))

	return &Bot{
		api:    botAPI,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// SetProcessor wires the message pipeline. The processor needs the bot as
// its gateway, so it is attached after construction.
func (b *Bot) SetProcessor(p *processor.Processor) {
	b.processor = p
}

// Start begins listening for updates from Telegram and blocks until the
// context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Telegram bot started, waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegram bot shutting down...")
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

// handleMessage processes one incoming message.
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStartCommand(message)
		case "help":
			b.handleHelpCommand(message)
		case "status":
			b.handleStatusCommand(message)
		default:
			b.sendMessage(message.Chat.ID, "Unknown command. Use /help for help.")
		}
		return
	}

	// Only plain text from humans in group chats is monitored.
	if message.Text == "" || message.From == nil || message.From.IsBot {
		return
	}
	if message.Chat.IsPrivate() {
		return
	}

	b.processor.HandleText(ctx, processor.Event{
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		ActorID:   message.From.ID,
		ActorName: message.From.FirstName,
		Text:      message.Text,
	})
}

// Remove deletes the original message from the chat.
func (b *Bot) Remove(_ context.Context, event processor.Event) error {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(event.ChatID, event.MessageID)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// Notify posts the paste link to the chat, mentioning the author and the
// detected language if any.
func (b *Bot) Notify(_ context.Context, event processor.Event, paste *pastestore.Paste, language string) error {
	mention := fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, event.ActorID, html.EscapeString(event.ActorName))
	langInfo := ""
	if language != "" {
		langInfo = fmt.Sprintf(" (%s)", language)
	}

	text := fmt.Sprintf("%s sent a long message%s.\n📋 View it here: %s", mention, langInfo, paste.URL)

	msg := tgbotapi.NewMessage(event.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send paste link: %w", err)
	}
	return nil
}

// NotifyFailure tells the author the paste could not be created.
func (b *Bot) NotifyFailure(_ context.Context, event processor.Event) error {
	msg := tgbotapi.NewMessage(event.ChatID, "❌ Sorry, I couldn't create a paste for your message. Please try again later.")
	msg.ReplyToMessageID = event.MessageID
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send failure reply: %w", err)
	}
	return nil
}

// handleStartCommand handles the /start command.
func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	welcomeText := "Welcome! 📋\n\n" +
		"This bot monitors your group messages.\n" +
		"Add me to a group, make me admin, and that's it!\n" +
		"When I see a long or code-like message I remove it, store it as a paste and post the link back. " +
		fmt.Sprintf("Pastes expire after %d days by default.", b.cfg.PasteExpirationDays)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("➕ Add to Group",
				fmt.Sprintf("https://t.me/%s?startgroup=true", b.api.Self.UserName)),
		),
	)

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send welcome message", zap.Error(err))
	}
}

// handleHelpCommand handles the /help command.
func (b *Bot) handleHelpCommand(message *tgbotapi.Message) {
	helpText := "🤖 Help\n\n" +
		"Commands:\n" +
		"/start - Welcome message and add bot to group\n" +
		"/help - Show this help message\n" +
		"/status - Show bot status and configuration\n\n" +
		"How it works:\n" +
		"1. Add me to your group\n" +
		"2. Make me an admin (I need to delete messages)\n" +
		fmt.Sprintf("3. I detect long messages (>%d chars) and code snippets\n", b.cfg.MinMessageLength) +
		"4. I remove the message and create a paste\n" +
		"5. I share the paste link in the group"
	b.sendMessage(message.Chat.ID, helpText)
}

// handleStatusCommand handles the /status command. Restricted to private
// chats so configuration is not leaked into groups.
func (b *Bot) handleStatusCommand(message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		b.sendMessage(message.Chat.ID, "❌ This command is only available in private chat.")
		return
	}

	tokenConfigured := "No"
	if b.cfg.BotToken != "" {
		tokenConfigured = "Yes"
	}
	debugMode := "Disabled"
	if b.cfg.Debug {
		debugMode = "Enabled"
	}

	statusText := fmt.Sprintf(
		"📊 Bot Status\n\n"+
			"API URL: %s\n"+
			"Website: %s\n"+
			"Min message length: %d chars\n"+
			"Debug mode: %s\n"+
			"Bot token configured: %s\n\n"+
			"Username: @%s\n"+
			"Status: ✅ Running",
		b.cfg.PasteAPIURL,
		b.cfg.WebsiteURL,
		b.cfg.MinMessageLength,
		debugMode,
		tokenConfigured,
		b.api.Self.UserName,
	)
	b.sendMessage(message.Chat.ID, statusText)
}

// sendMessage is a helper to send a simple text message.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
