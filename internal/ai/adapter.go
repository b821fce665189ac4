// Package ai - адаптер внешнего классификатора. Любая ошибка внешнего вызова
// заменяется детерминированной классификацией и не выходит за пределы пакета.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/crisis_mesh/internal/classifier"
	"github.com/shenikar/crisis_mesh/internal/metrics"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrClassificationUnavailable - внешний классификатор не дал пригодного ответа
var ErrClassificationUnavailable = errors.New("external classification unavailable")

const DefaultTimeout = 4 * time.Second

// Adapter классифицирует сообщение внешним провайдером с откатом на каскад правил
type Adapter struct {
	provider Provider
	timeout  time.Duration
	logger   *logrus.Logger
	metrics  *metrics.Metrics
}

// NewAdapter создает адаптер. Если provider равен nil, используется только каскад
func NewAdapter(provider Provider, timeout time.Duration, logger *logrus.Logger, m *metrics.Metrics) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
		metrics:  m,
	}
}

// Classify всегда возвращает результат не позже чем через timeout
func (a *Adapter) Classify(ctx context.Context, text string) models.Classification {
	baseline := classifier.Classify(text)
	if a.provider == nil {
		a.metrics.ObserveClassification("baseline")
		return baseline
	}

	log := a.logger.WithFields(logrus.Fields{
		"service": "ClassificationAdapter",
		"method":  "Classify",
	})

	start := time.Now()
	result, err := a.classifyExternal(ctx, text, baseline)
	if err != nil {
		a.metrics.ObserveExternalCall("fallback", time.Since(start))
		a.metrics.ObserveClassification("fallback")
		log.WithError(err).Warn("external classification failed, using keyword cascade")
		return baseline
	}

	a.metrics.ObserveExternalCall("ok", time.Since(start))
	a.metrics.ObserveClassification("external")
	log.WithField("category", result.Category).Debug("external classification applied")
	return result
}

func (a *Adapter) classifyExternal(ctx context.Context, text string, baseline models.Classification) (models.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type reply struct {
		raw string
		err error
	}
	done := make(chan reply, 1)
	go func() {
		raw, err := a.provider.Generate(ctx, systemPrompt, text)
		done <- reply{raw: raw, err: err}
	}()

	var r reply
	select {
	case r = <-done:
	case <-ctx.Done():
		return models.Classification{}, fmt.Errorf("%w: %v", ErrClassificationUnavailable, ctx.Err())
	}
	if r.err != nil {
		return models.Classification{}, fmt.Errorf("%w: %v", ErrClassificationUnavailable, r.err)
	}

	payload, err := ParsePayload(r.raw)
	if err != nil {
		return models.Classification{}, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}
	return Normalize(payload, baseline), nil
}

var systemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	names := make([]string, 0, len(classifier.Categories()))
	for _, c := range classifier.Categories() {
		names = append(names, string(c))
	}
	return "You triage text messages sent to a community safety line. " +
		"Reply with a single JSON object and nothing else, with fields: " +
		"category (one of " + strings.Join(names, ", ") + ", or other), " +
		"urgency (1-10), emotion, emotionIntensity (1-10), " +
		"recommendedAction (dispatch_immediate, dispatch_monitor or provide_resources), " +
		"policeNeeded, communityResolution, reasoning, keyIndicators (array of short tags), " +
		"suggestedResponse (one sentence to send back to the reporter)."
}
