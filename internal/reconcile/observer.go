package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/metrics"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/sirupsen/logrus"
)

// Role - вид наблюдателя
type Role string

const (
	RoleReporter  Role = "reporter"
	RoleVolunteer Role = "volunteer"
	RoleOps       Role = "ops"
)

// ParseRole разбирает имя роли наблюдателя
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleReporter, RoleVolunteer, RoleOps:
		return r, nil
	}
	return "", fmt.Errorf("unknown observer role %q", s)
}

// View - согласованное представление наблюдателя
type View struct {
	Incidents  []*models.Incident
	Stats      *models.Stats
	Volunteers []*models.Volunteer
	PolledAt   time.Time
}

// Observer периодически опрашивает источник и сводит снимок с оверлеем
type Observer struct {
	role     Role
	source   SnapshotSource
	overlay  *Overlay
	interval time.Duration
	limit    int
	logger   *logrus.Logger
	metrics  *metrics.Metrics

	mu   sync.RWMutex
	view View
}

// NewObserver создает наблюдателя
func NewObserver(role Role, source SnapshotSource, overlay *Overlay, interval time.Duration, limit int, logger *logrus.Logger, m *metrics.Metrics) *Observer {
	return &Observer{
		role:     role,
		source:   source,
		overlay:  overlay,
		interval: interval,
		limit:    limit,
		logger:   logger,
		metrics:  m,
	}
}

// Poll получает снимок и обновляет представление. При ошибке прежнее
// представление сохраняется до следующего успешного опроса
func (o *Observer) Poll(ctx context.Context) error {
	incidents, err := o.source.Incidents(ctx, o.limit)
	if err != nil {
		o.metrics.Snapshot("error")
		return fmt.Errorf("reconcile: could not fetch incidents: %w", err)
	}
	stats, err := o.source.Stats(ctx)
	if err != nil {
		o.metrics.Snapshot("error")
		return fmt.Errorf("reconcile: could not fetch stats: %w", err)
	}
	volunteers, err := o.source.Volunteers(ctx)
	if err != nil {
		o.metrics.Snapshot("error")
		return fmt.Errorf("reconcile: could not fetch volunteers: %w", err)
	}

	merged := o.overlay.Merge(incidents)

	o.mu.Lock()
	o.view = View{
		Incidents:  merged,
		Stats:      stats,
		Volunteers: volunteers,
		PolledAt:   time.Now(),
	}
	o.mu.Unlock()

	o.metrics.Snapshot("ok")
	return nil
}

// Start опрашивает источник сразу и затем с интервалом, пока ctx не отменен
func (o *Observer) Start(ctx context.Context) {
	log := o.logger.WithFields(logrus.Fields{
		"component": "observer",
		"role":      o.role,
		"policy":    o.overlay.Policy(),
	})
	log.Info("Starting observer...")

	go func() {
		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()

		for {
			if err := o.Poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Warn("Snapshot poll failed, keeping stale view")
			} else if err == nil {
				v := o.View()
				log.WithFields(logrus.Fields{
					"incidents": len(v.Incidents),
					"overlay":   o.overlay.Len(),
				}).Debug("Snapshot merged")
			}

			select {
			case <-ctx.Done():
				log.Info("Stopping observer.")
				return
			case <-ticker.C:
			}
		}
	}()
}

// View возвращает последнее согласованное представление
func (o *Observer) View() View {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.view
}

// StatusOf возвращает статус инцидента в представлении наблюдателя
func (o *Observer) StatusOf(id uuid.UUID) (models.Status, bool) {
	if e, ok := o.overlay.Get(id); ok {
		return e.Status, true
	}
	for _, inc := range o.View().Incidents {
		if inc.ID == id {
			return inc.Status, true
		}
	}
	return "", false
}

// Act выполняет переход через координатор и запоминает его в оверлее
func (o *Observer) Act(ctx context.Context, id uuid.UUID, status models.Status, volunteerID *uuid.UUID) (*models.Incident, error) {
	updated, err := o.source.Act(ctx, id, status, volunteerID)
	if err != nil {
		return nil, err
	}
	o.overlay.Record(id, updated.Status, updated.Version)
	return updated, nil
}
