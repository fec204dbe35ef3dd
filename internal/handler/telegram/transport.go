package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cf-zone-bot/pkg/logging"
)

// API is the slice of the Telegram Bot API the transport needs.
// *tgbotapi.BotAPI satisfies it.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Transport wraps the chat platform calls the bot makes: sending, editing in
// place, acknowledging button presses and webhook registration.
type Transport struct {
	api API
	log *logging.Logger
}

// NewTransport creates a new transport over a Telegram API client
func NewTransport(api API, logger *logging.Logger) *Transport {
	return &Transport{
		api: api,
		log: logger,
	}
}

// SendMessage sends a message to a chat
func (t *Transport) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := t.api.Send(msg); err != nil {
		t.log.Errorf("[Transport] sendMessage chatID=%d failed: %v", chatID, err)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendMessageWithKeyboard sends a message with inline keyboard
func (t *Transport) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	if _, err := t.api.Send(msg); err != nil {
		t.log.Errorf("[Transport] sendMessageWithKeyboard chatID=%d failed: %v", chatID, err)
		return fmt.Errorf("failed to send message with keyboard: %w", err)
	}
	return nil
}

// EditMessage replaces the text and keyboard of an existing message in place.
// Telegram rejects an edit whose content equals what the message already
// shows; that answer means the screen is current, not that the edit failed.
func (t *Transport) EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if keyboard != nil {
		edit.ReplyMarkup = keyboard
	}
	if _, err := t.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			t.log.Debugf("[Transport] editMessage chatID=%d messageID=%d unchanged", chatID, messageID)
			return nil
		}
		t.log.Errorf("[Transport] editMessage chatID=%d messageID=%d failed: %v", chatID, messageID, err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
// Request is used here because the answer endpoint returns a plain bool, not
// a message.
func (t *Transport) AnswerCallback(callbackID string, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := t.api.Request(callback); err != nil {
		t.log.Errorf("[Transport] answerCallback failed: %v", err)
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// RegisterWebhook points Telegram update delivery at the given public URL
func (t *Transport) RegisterWebhook(url string) error {
	webhook, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := t.api.Request(webhook); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	return nil
}

// UnregisterWebhook removes the webhook registration
func (t *Transport) UnregisterWebhook() error {
	if _, err := t.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}
