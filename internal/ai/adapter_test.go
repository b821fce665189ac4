package ai

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/crisis_mesh/internal/classifier"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	reply string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeProvider) Generate(ctx context.Context, _, _ string) (string, error) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.reply, f.err
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func TestAdapter_NoProviderUsesCascade(t *testing.T) {
	adapter := NewAdapter(nil, time.Second, newTestLogger(), nil)

	got := adapter.Classify(context.Background(), "Someone has a knife and is following me")

	assert.Equal(t, classifier.Classify("Someone has a knife and is following me"), got)
}

func TestAdapter_ProviderErrorFallsBack(t *testing.T) {
	// Подготовка
	provider := &fakeProvider{err: errors.New("connection refused")}
	adapter := NewAdapter(provider, time.Second, newTestLogger(), nil)
	text := "I feel uncomfortable, this guy won't stop talking to me"

	// Действие
	got := adapter.Classify(context.Background(), text)

	// Проверки
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, classifier.Classify(text), got)
}

func TestAdapter_TimeoutFallsBack(t *testing.T) {
	provider := &fakeProvider{reply: `{"category":"following","urgency":9}`, delay: 200 * time.Millisecond}
	adapter := NewAdapter(provider, 20*time.Millisecond, newTestLogger(), nil)
	text := "help me please"

	start := time.Now()
	got := adapter.Classify(context.Background(), text)

	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.Equal(t, classifier.Classify(text), got)
}

func TestAdapter_MalformedPayloadFallsBack(t *testing.T) {
	provider := &fakeProvider{reply: "I cannot help with that"}
	adapter := NewAdapter(provider, time.Second, newTestLogger(), nil)

	got := adapter.Classify(context.Background(), "I'm scared")

	assert.Equal(t, classifier.Classify("I'm scared"), got)
}

func TestAdapter_ExternalResultApplied(t *testing.T) {
	provider := &fakeProvider{reply: "```json\n{\"category\":\"following\",\"urgency\":9,\"recommended_action\":\"dispatch_immediate\"}\n```"}
	adapter := NewAdapter(provider, time.Second, newTestLogger(), nil)

	got := adapter.Classify(context.Background(), "there is a man behind me")

	assert.Equal(t, models.CategoryFollowing, got.Category)
	assert.Equal(t, 9, got.Urgency)
	assert.Equal(t, models.ActionDispatchImmediate, got.RecommendedAction)
	assert.True(t, got.PoliceNeeded)
	assert.False(t, got.CommunityResolution)
}
