package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sportclub/internal/domain"
	"sportclub/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier tells the club administrators about new reservations.
type TelegramNotifier struct {
	sender       domain.TelegramSender
	adminChatIDs []int64
}

// NewTelegramBot connects to the Bot API with token.
func NewTelegramBot(token string, debug bool) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = debug
	return bot, nil
}

func NewTelegramNotifier(sender domain.TelegramSender, adminChatIDs []int64) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, adminChatIDs: adminChatIDs}
}

func (n *TelegramNotifier) Notify(_ context.Context, kind string, r *models.Reservation) error {
	if r == nil {
		return errors.New("reservation is nil")
	}
	text, ok := adminMessage(kind, r)
	if !ok {
		return nil
	}

	var errs []error
	for _, chatID := range n.adminChatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.sender.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("send to chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

// adminMessage renders the admin text for kind; false means admins are not told.
func adminMessage(kind string, r *models.Reservation) (string, bool) {
	var title string
	switch kind {
	case models.NotifyReservationCreated:
		title = "Nuova prenotazione in attesa di conferma"
	case models.NotifyReservationCancelled:
		title = "Prenotazione annullata"
	default:
		return "", false
	}

	field := r.FieldName
	if field == "" {
		field = fmt.Sprintf("campo #%d", r.FieldID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "#%d %s\n", r.ID, field)
	fmt.Fprintf(&b, "%s %s-%s\n", r.Date.Format("02/01/2006"), r.StartTime, r.EndTime)
	if r.ActivityType != "" {
		fmt.Fprintf(&b, "Attività: %s\n", r.ActivityType)
	}
	if r.Phone != "" {
		fmt.Fprintf(&b, "Telefono: %s\n", r.Phone)
	}
	if r.Notes != "" {
		fmt.Fprintf(&b, "Note: %s\n", r.Notes)
	}
	return strings.TrimRight(b.String(), "\n"), true
}
