package worker

// email_worker.go
// Processes order confirmation emails from QueueEmail.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bausingcode/bausing-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MailSender is the slice of infra.Mailer the worker needs.
type MailSender interface {
	Send(to, subject, body string) error
}

// EmailWorker sends order confirmation emails.
type EmailWorker struct {
	mailer    MailSender
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
}

func NewEmailWorker(mailer MailSender, orderRepo repository.OrderRepository, userRepo repository.UserRepository) *EmailWorker {
	return &EmailWorker{mailer: mailer, orderRepo: orderRepo, userRepo: userRepo}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload OrderJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("email_worker: invalid order_id")
		return
	}

	order, err := w.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("email_worker: order not found")
		return
	}
	user, err := w.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("email_worker: user not found")
		return
	}
	if user.Email == "" {
		log.Warn().Str("order_id", payload.OrderID).Msg("email_worker: user has no email, skipping")
		return
	}

	subject := fmt.Sprintf("Confirmación de compra — Orden %s", order.ID)
	body := fmt.Sprintf(
		"Hola %s,\n\nRecibimos tu pago por $%s. Tu orden %s está confirmada.\n\nGracias por tu compra.",
		user.Name, order.Total.StringFixed(2), order.ID)

	if err := w.mailer.Send(user.Email, subject, body); err != nil {
		log.Error().Err(err).Str("to", user.Email).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", user.Email).Str("order_id", payload.OrderID).Msg("email_worker: confirmation sent")
}
