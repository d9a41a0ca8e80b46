// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"weddingpro-backend/models"
	"weddingpro-backend/utils"
)

const (
	ReminderUpcoming = "upcoming"
	ReminderOverdue  = "overdue"
)

// Sender delivers a text message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioSender sends SMS, or WhatsApp messages to E.164 numbers when a
// WhatsApp sender number is configured.
type TwilioSender struct {
	client         *twilio.RestClient
	from           string
	whatsappNumber string
}

func NewTwilioSender(accountSID, authToken, from, whatsappNumber string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from:           from,
		whatsappNumber: whatsappNumber,
	}
}

// Channel reports how a message to phone would be delivered.
func (t *TwilioSender) Channel(phone string) string {
	if t.whatsappNumber != "" && strings.HasPrefix(phone, "+") {
		return "whatsapp"
	}
	return "sms"
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if t.Channel(to) == "whatsapp" {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + t.whatsappNumber)
	} else {
		params.SetTo(to)
		params.SetFrom(t.from)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// BalanceReader is the part of BookingService reminders depend on.
type BalanceReader interface {
	GetBalance(ctx context.Context, weddingID uuid.UUID) (*Settlement, error)
}

// ReminderService texts customers whose wedding still has money outstanding:
// weddings coming up within DaysAhead and weddings already past.
type ReminderService struct {
	db        *gorm.DB
	balances  BalanceReader
	sender    Sender
	clock     Clock
	loc       *time.Location
	daysAhead int
	log       zerolog.Logger
}

func NewReminderService(db *gorm.DB, balances BalanceReader, sender Sender, clock Clock, loc *time.Location, daysAhead int, logger zerolog.Logger) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReminderService{
		db:        db,
		balances:  balances,
		sender:    sender,
		clock:     clock,
		loc:       loc,
		daysAhead: daysAhead,
		log:       logger.With().Str("component", "reminders").Logger(),
	}
}

// StartScheduler runs SendDailyReminders on the given cron schedule.
// The caller stops the returned cron on shutdown.
func (s *ReminderService) StartScheduler(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(schedule, func() {
		if _, err := s.SendDailyReminders(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("daily reminders failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", schedule, err)
	}
	c.Start()
	s.log.Info().Str("schedule", schedule).Msg("reminder scheduler started")
	return c, nil
}

// SendDailyReminders processes both reminder kinds and returns the number of
// messages sent.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (int, error) {
	today := utils.BeginningOfDay(s.clock.Now(), s.loc)

	upcoming, err := s.unpaidBetween(ctx, today, today.AddDate(0, 0, s.daysAhead+1))
	if err != nil {
		return 0, err
	}
	sent := s.sendReminders(ctx, upcoming, ReminderUpcoming)

	overdue, err := s.unpaidBetween(ctx, time.Time{}, today)
	if err != nil {
		return sent, err
	}
	sent += s.sendReminders(ctx, overdue, ReminderOverdue)

	s.log.Info().Int("sent", sent).Msg("daily reminder processing completed")
	return sent, nil
}

func (s *ReminderService) unpaidBetween(ctx context.Context, from, to time.Time) ([]models.Wedding, error) {
	var weddings []models.Wedding
	query := s.db.WithContext(ctx).Preload("Customer").
		Where("payment_status <> ?", models.StatusPaid).
		Where("wedding_date < ?", to.UTC())
	if !from.IsZero() {
		query = query.Where("wedding_date >= ?", from.UTC())
	}
	if err := query.Order("wedding_date").Find(&weddings).Error; err != nil {
		return nil, fmt.Errorf("list unpaid weddings: %w", err)
	}
	return weddings, nil
}

func (s *ReminderService) sendReminders(ctx context.Context, weddings []models.Wedding, kind string) int {
	if len(weddings) == 0 {
		return 0
	}

	var template models.ReminderTemplate
	if err := s.db.WithContext(ctx).Where("type = ? AND is_active = ?", kind, true).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Str("type", kind).Msg("no active reminder template")
		} else {
			s.log.Error().Err(err).Str("type", kind).Msg("failed to load reminder template")
		}
		return 0
	}

	sent := 0
	for i := range weddings {
		w := &weddings[i]
		if w.Customer == nil || w.Customer.Phone == "" {
			continue
		}
		if s.alreadyReminded(ctx, w.ID, kind) {
			continue
		}

		balance, err := s.balances.GetBalance(ctx, w.ID)
		if err != nil {
			s.log.Error().Err(err).Str("wedding_id", w.ID.String()).Msg("failed to compute balance")
			continue
		}
		if !balance.Remain.IsPositive() {
			continue
		}

		message := renderReminder(template.Message, w, balance, s.loc)
		channel := "sms"
		if ch, ok := s.sender.(interface{ Channel(string) string }); ok {
			channel = ch.Channel(w.Customer.Phone)
		}

		status, errorMsg := "sent", ""
		sid, err := s.sender.Send(ctx, w.Customer.Phone, message)
		if err != nil {
			status, errorMsg = "failed", err.Error()
			s.log.Error().Err(err).Str("phone", w.Customer.Phone).Msg("failed to send reminder")
		} else {
			sent++
			s.log.Info().Str("phone", w.Customer.Phone).Str("sid", sid).Msg("reminder sent")
		}

		entry := models.ReminderLog{
			WeddingID:    w.ID,
			CustomerID:   w.CustomerID,
			TemplateID:   template.ID,
			Type:         kind,
			Message:      message,
			Status:       status,
			ErrorMessage: errorMsg,
			Channel:      channel,
			SentAt:       s.clock.Now().UTC(),
		}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			s.log.Error().Err(err).Str("wedding_id", w.ID.String()).Msg("failed to log reminder")
		}
	}
	return sent
}

// alreadyReminded reports a successful reminder of this kind sent today.
func (s *ReminderService) alreadyReminded(ctx context.Context, weddingID uuid.UUID, kind string) bool {
	start, end := utils.DayWindow(s.clock.Now(), s.loc)
	var count int64
	s.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("wedding_id = ? AND type = ? AND status = ?", weddingID, kind, "sent").
		Where("sent_at >= ? AND sent_at < ?", start.UTC(), end.UTC()).
		Count(&count)
	return count > 0
}

func renderReminder(tmpl string, w *models.Wedding, balance *Settlement, loc *time.Location) string {
	return strings.NewReplacer(
		"[CustomerName]", w.Customer.Name,
		"[WeddingDate]", utils.DayKey(w.WeddingDate, loc),
		"[Remain]", balance.Remain.StringFixed(0),
	).Replace(tmpl)
}
