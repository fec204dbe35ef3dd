package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookHandler returns the HTTP handler Telegram posts updates to.
// Unparseable bodies get 400, a failed dispatch gets 500 so Telegram retries
// the update, everything else gets 200.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			b.log.Errorf("[Webhook] malformed update: %v", err)
			http.Error(w, "malformed update", http.StatusBadRequest)
			return
		}

		if err := b.processUpdate(r.Context(), update); err != nil {
			b.log.Errorf("[Webhook] update %d failed: %v", update.UpdateID, err)
			http.Error(w, "processing failed", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// processUpdate routes one update, converting a handler panic into an error
// so a single bad update cannot take the server down
func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling update: %v", r)
		}
	}()

	return b.Route(ctx, update)
}
