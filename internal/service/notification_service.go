package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// notificationRetryIntervals is the wait before each redelivery.
var notificationRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// SignatureHeader carries the HMAC of the request body.
const SignatureHeader = "X-Signature"

// NotificationPayload is the JSON body POSTed to the webhook URL.
type NotificationPayload struct {
	EventType domain.EventType `json:"event_type"`
	Event     domain.Event     `json:"event"`
	Signature string           `json:"signature"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NotificationService implements ports.Notifier as a signed webhook with
// retries. Delivery runs in its own goroutine.
type NotificationService struct {
	url        string
	secret     string
	sigSvc     ports.SignatureService
	logRepo    ports.NotificationLogRepository
	httpClient HTTPClient
	retries    []time.Duration
	log        zerolog.Logger
}

// NewNotificationService creates a new NotificationService. An empty url
// turns Notify into a debug log line; logRepo may be nil.
func NewNotificationService(
	url, secret string,
	sigSvc ports.SignatureService,
	logRepo ports.NotificationLogRepository,
	httpClient HTTPClient,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		url:        url,
		secret:     secret,
		sigSvc:     sigSvc,
		logRepo:    logRepo,
		httpClient: httpClient,
		retries:    notificationRetryIntervals,
		log:        logger.WithComponent(log, "notifier"),
	}
}

// Notify never blocks on delivery and never reports failure.
func (s *NotificationService) Notify(ctx context.Context, event domain.Event) {
	if s.url == "" {
		s.log.Debug().Str("event_type", string(event.Type)).Msg("notification: no webhook URL configured, skipping")
		return
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Str("event_type", string(event.Type)).Msg("notification: failed to marshal event")
		return
	}
	signature := s.sigSvc.Sign(s.secret, string(eventBytes))

	body, err := json.Marshal(NotificationPayload{
		EventType: event.Type,
		Event:     event,
		Signature: signature,
	})
	if err != nil {
		s.log.Error().Err(err).Str("event_type", string(event.Type)).Msg("notification: failed to marshal payload")
		return
	}

	go s.deliverWithRetries(context.WithoutCancel(ctx), event, body, signature)
}

func (s *NotificationService) deliverWithRetries(ctx context.Context, event domain.Event, body []byte, signature string) {
	eventID := event.ID.String()

	for attempt := 0; attempt <= len(s.retries); attempt++ {
		if attempt > 0 {
			time.Sleep(s.retries[attempt-1])
		}

		status, err := s.post(ctx, body, signature)
		s.record(ctx, event, body, attempt+1, status, err)

		if err == nil {
			s.log.Info().Str("event_id", eventID).Int("attempt", attempt+1).Int("status", status).Msg("notification: delivered successfully")
			return
		}
		s.log.Warn().Err(err).Str("event_id", eventID).Int("attempt", attempt+1).Msg("notification: delivery failed")
	}

	s.log.Error().Str("event_id", eventID).Str("event_type", string(event.Type)).Msg("notification: all retry attempts exhausted")
}

// post returns the response status and an error for anything but 2xx.
func (s *NotificationService) post(ctx context.Context, body []byte, signature string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signature)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("non-2xx response: %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func (s *NotificationService) record(ctx context.Context, event domain.Event, body []byte, attempt, status int, deliveryErr error) {
	if s.logRepo == nil {
		return
	}

	entry := &domain.NotificationDeliveryLog{
		ID:        uuid.New(),
		EventID:   event.ID,
		EventType: event.Type,
		TargetURL: s.url,
		Payload:   string(body),
		Attempt:   attempt,
		Status:    domain.DeliveryStatusDelivered,
		CreatedAt: time.Now(),
	}
	if status != 0 {
		entry.HTTPStatus = &status
	}
	if deliveryErr != nil {
		msg := deliveryErr.Error()
		entry.Status = domain.DeliveryStatusFailed
		entry.LastError = &msg
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("notification: failed to persist delivery log")
	}
}

var _ ports.Notifier = (*NotificationService)(nil)
