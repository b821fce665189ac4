package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

const (
	webhookQueueKey = "volunteer_alerts"
)

// WebhookEvent - оповещение дежурных волонтеров о новом инциденте
type WebhookEvent struct {
	IncidentID   uuid.UUID   `json:"incident_id"`
	Alert        string      `json:"alert"`
	Category     string      `json:"category"`
	Urgency      int         `json:"urgency"`
	PoliceNeeded bool        `json:"police_needed"`
	LocationHint string      `json:"location_hint,omitempty"`
	VolunteerIDs []uuid.UUID `json:"volunteer_ids"`
	Timestamp    time.Time   `json:"timestamp"`
}

// AlertText формирует текст оповещения для подписи категории
func AlertText(label string) string {
	return "ALERT: " + label
}

// WebhookPublisher - интерфейс для публикации оповещений
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая очередь Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish кладет событие в левую часть очереди
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

// DirectPublisher доставляет событие сразу, без очереди. Используется без Redis
type DirectPublisher struct {
	sender *Sender
	logger *logrus.Logger
}

// NewDirectPublisher создает публикатор поверх Sender
func NewDirectPublisher(sender *Sender, logger *logrus.Logger) *DirectPublisher {
	return &DirectPublisher{sender: sender, logger: logger}
}

// Publish отправляет событие в отдельной горутине, чтобы не задерживать запрос
func (p *DirectPublisher) Publish(_ context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}
	go p.sender.Deliver(context.Background(), event, payload)
	return nil
}
