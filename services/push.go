package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petcare-backend/models"
	"petcare-backend/store"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// PushPayload is one notification addressed to a user.
type PushPayload struct {
	Title        string
	Body         string
	Data         map[string]string
	TargetUserID uuid.UUID
	URL          string
}

// DeliveryResult describes what the provider accepted.
type DeliveryResult struct {
	Channel   string
	MessageID string
}

// PushSender delivers notifications on a best-effort basis.
type PushSender interface {
	Send(ctx context.Context, payload PushPayload) (DeliveryResult, error)
	PermissionStatus(ctx context.Context, userID uuid.UUID) (models.NotificationPermission, error)
}

var ErrNoRecipient = errors.New("user has no phone number")

// messageCreator is the slice of the Twilio API the sender needs.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioConfig holds the Twilio account and sender numbers.
type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

// TwilioSender pushes notifications as WhatsApp messages when the user's
// phone is in E.164 form and a WhatsApp sender is configured, SMS otherwise.
type TwilioSender struct {
	messages       messageCreator
	store          store.Store
	phoneNumber    string
	whatsAppNumber string
}

func NewTwilioSender(cfg TwilioConfig, s store.Store) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{
		messages:       client.Api,
		store:          s,
		phoneNumber:    cfg.PhoneNumber,
		whatsAppNumber: cfg.WhatsAppNumber,
	}
}

// PermissionStatus returns the permission the user's client last reported.
func (t *TwilioSender) PermissionStatus(ctx context.Context, userID uuid.UUID) (models.NotificationPermission, error) {
	var user models.User
	if err := t.store.Get(ctx, &user, userID); err != nil {
		return models.PermissionDefault, fmt.Errorf("load user permission: %w", err)
	}
	if !user.NotificationPermission.Valid() {
		return models.PermissionDefault, nil
	}
	return user.NotificationPermission, nil
}

func (t *TwilioSender) Send(ctx context.Context, payload PushPayload) (DeliveryResult, error) {
	var user models.User
	if err := t.store.Get(ctx, &user, payload.TargetUserID); err != nil {
		return DeliveryResult{}, fmt.Errorf("load recipient: %w", err)
	}
	if user.Phone == "" {
		return DeliveryResult{}, ErrNoRecipient
	}

	channel := "sms"
	to := user.Phone
	from := t.phoneNumber
	if strings.HasPrefix(user.Phone, "+") && t.whatsAppNumber != "" {
		channel = "whatsapp"
		to = "whatsapp:" + user.Phone
		from = "whatsapp:" + t.whatsAppNumber
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(formatMessage(payload))

	resp, err := t.messages.CreateMessage(params)
	if err != nil {
		return DeliveryResult{Channel: channel}, fmt.Errorf("twilio %s: %w", channel, err)
	}
	result := DeliveryResult{Channel: channel}
	if resp != nil && resp.Sid != nil {
		result.MessageID = *resp.Sid
	}
	return result, nil
}

func formatMessage(p PushPayload) string {
	var b strings.Builder
	b.WriteString(p.Title)
	if p.Body != "" {
		b.WriteString("\n")
		b.WriteString(p.Body)
	}
	if p.URL != "" {
		b.WriteString("\n")
		b.WriteString(p.URL)
	}
	return b.String()
}
