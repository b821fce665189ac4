package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/crisis_mesh/internal/config"
	"github.com/sirupsen/logrus"
)

const signatureHeader = "X-Webhook-Signature"

// Sender доставляет подписанные события на WEBHOOK_URL с повторами
type Sender struct {
	logger     *logrus.Logger
	cfg        *config.Config
	httpClient *resty.Client
	sleep      func(time.Duration)
}

// NewSender создает новый Sender
func NewSender(logger *logrus.Logger, cfg *config.Config) *Sender {
	return &Sender{
		logger:     logger,
		cfg:        cfg,
		httpClient: resty.New().SetTimeout(cfg.WebhookTimeout),
		sleep:      time.Sleep,
	}
}

// Deliver отправляет событие, удваивая задержку после каждой неудачи.
// Возвращает true, если получатель ответил 2xx
func (s *Sender) Deliver(ctx context.Context, event WebhookEvent, rawPayload []byte) bool {
	log := s.logger.WithFields(logrus.Fields{
		"incident_id": event.IncidentID,
		"alert":       event.Alert,
	})
	log.Debug("Processing webhook event...")

	if s.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured. Skipping webhook delivery.")
		return false
	}

	maxRetries := s.cfg.WebhookMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	delay := s.cfg.WebhookBaseDelay

	for i := 0; i < maxRetries; i++ {
		req := s.httpClient.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(rawPayload)

		if s.cfg.WebhookSecret != "" {
			req.SetHeader(signatureHeader, generateHMACSHA256(rawPayload, s.cfg.WebhookSecret))
		}

		resp, err := req.Post(s.cfg.WebhookURL)
		switch {
		case err != nil:
			log.WithError(err).Warnf("Failed to send webhook. Retrying in %v. Retries left: %d", delay, maxRetries-1-i)
		case resp.IsSuccess():
			log.Info("Webhook delivered successfully.")
			return true
		default:
			log.Warnf("Webhook delivery failed with status code %d. Retrying in %v. Retries left: %d", resp.StatusCode(), delay, maxRetries-1-i)
		}

		if i < maxRetries-1 {
			s.sleep(delay)
			delay *= 2
		}
	}

	log.Errorf("Failed to deliver webhook after %d attempts.", maxRetries)
	return false
}

// WebhookWorker читает очередь Redis и передает события в Sender
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	sender      *Sender
	cfg         *config.Config
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *WebhookWorker {
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		sender:      NewSender(logger, cfg),
		cfg:         cfg,
	}
}

// Start запускает горутину обработки очереди
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	go func() {
		for {
			if ctx.Err() != nil {
				w.logger.Info("Stopping webhook worker.")
				return
			}

			// BRPOP - блокирующее извлечение из правой части очереди, 0 - без таймаута
			result, err := w.redisClient.BRPop(ctx, 0, webhookQueueKey).Result()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				w.logger.WithError(err).Error("Failed to pop webhook event from Redis")
				time.Sleep(w.cfg.WebhookTimeout)
				continue
			}

			// result[0] - ключ, result[1] - значение
			payload := []byte(result[1])
			var event WebhookEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
				continue
			}

			w.sender.Deliver(ctx, event, payload)
		}
	}()
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
