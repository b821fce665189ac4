package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shenikar/crisis_mesh/internal/config"
	"github.com/shenikar/crisis_mesh/internal/metrics"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/shenikar/crisis_mesh/internal/reconcile"
	"github.com/shenikar/crisis_mesh/pkg/logger"
	"github.com/sirupsen/logrus"
)

const requestTimeout = 5 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	role, err := reconcile.ParseRole(cfg.ObserverRole)
	if err != nil {
		log.Fatalf("Invalid observer role: %v", err)
	}
	policy, err := reconcile.ParsePolicy(cfg.ReconcilePolicy)
	if err != nil {
		log.Fatalf("Invalid reconcile policy: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source := reconcile.NewHTTPSource(cfg.ObserverBaseURL, requestTimeout)
	observer := reconcile.NewObserver(
		role,
		source,
		reconcile.NewOverlay(policy),
		cfg.PollInterval,
		cfg.IncidentListDefaultLimit,
		log,
		metrics.NewMetrics(prometheus.NewRegistry()),
	)
	observer.Start(ctx)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Observer stopped")
			return
		case <-ticker.C:
			logView(log, role, observer.View())
		}
	}
}

// logView пишет сводку представления: количество инцидентов по статусам
func logView(log *logrus.Logger, role reconcile.Role, view reconcile.View) {
	if view.PolledAt.IsZero() {
		log.Warn("No snapshot received yet")
		return
	}

	byStatus := make(map[models.Status]int)
	for _, inc := range view.Incidents {
		byStatus[inc.Status]++
	}

	fields := logrus.Fields{
		"role":       role,
		"incidents":  len(view.Incidents),
		"volunteers": len(view.Volunteers),
		"stale_for":  time.Since(view.PolledAt).Round(time.Second).String(),
	}
	for status, n := range byStatus {
		fields[string(status)] = n
	}
	if view.Stats != nil {
		fields["police_pct"] = view.Stats.PoliceInvolvedPercentage
		fields["community_pct"] = view.Stats.CommunityPercentage
	}
	log.WithFields(fields).Info("Observer view")
}
