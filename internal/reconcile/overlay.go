// Package reconcile сводит периодические снимки инцидентов с локально
// известными статусами наблюдателя.
package reconcile

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/models"
)

// Policy - правило разрешения конфликта между оверлеем и снимком
type Policy string

const (
	// PolicyOverlay - первое известное наблюдателю значение сохраняется до resolved.
	// Два наблюдателя, изменившие один инцидент, могут навсегда разойтись
	PolicyOverlay Policy = "overlay"
	// PolicyVersioned - побеждает запись с большей серверной версией
	PolicyVersioned Policy = "versioned"
)

// ParsePolicy разбирает имя политики
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyOverlay, PolicyVersioned:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown reconcile policy %q", s)
}

// Origin - откуда взялась запись оверлея
type Origin string

const (
	OriginLocal    Origin = "local"
	OriginSnapshot Origin = "snapshot"
)

// Entry - статус инцидента, известный наблюдателю
type Entry struct {
	Status  models.Status
	Version int64
	Origin  Origin
}

// Overlay - локальная карта incidentId -> статус
type Overlay struct {
	mu      sync.RWMutex
	policy  Policy
	entries map[uuid.UUID]Entry
}

// NewOverlay создает пустой оверлей с политикой слияния
func NewOverlay(policy Policy) *Overlay {
	return &Overlay{
		policy:  policy,
		entries: make(map[uuid.UUID]Entry),
	}
}

func (o *Overlay) Policy() Policy {
	return o.policy
}

// Record запоминает переход, выполненный самим наблюдателем.
// version - версия, которую вернул сервер, 0 если неизвестна
func (o *Overlay) Record(id uuid.UUID, status models.Status, version int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[id] = Entry{Status: status, Version: version, Origin: OriginLocal}
}

// Get возвращает запись оверлея
func (o *Overlay) Get(id uuid.UUID) (Entry, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	e, ok := o.entries[id]
	return e, ok
}

// Clear удаляет запись
func (o *Overlay) Clear(id uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.entries, id)
}

func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}

// Merge сводит снимок с оверлеем и возвращает копии инцидентов с итоговыми статусами.
// Исходный снимок не изменяется. Записи, дошедшие до resolved, удаляются из оверлея
func (o *Overlay) Merge(snapshot []*models.Incident) []*models.Incident {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]*models.Incident, 0, len(snapshot))
	for _, inc := range snapshot {
		merged := *inc
		entry, ok := o.entries[inc.ID]

		switch {
		case !ok:
			entry = Entry{Status: inc.Status, Version: inc.Version, Origin: OriginSnapshot}
		case o.policy == PolicyVersioned && inc.Version > entry.Version:
			entry = Entry{Status: inc.Status, Version: inc.Version, Origin: OriginSnapshot}
		case o.policy == PolicyOverlay && inc.Status.Terminal():
			// resolved окончателен, оверлей его не перекрывает
			entry = Entry{Status: inc.Status, Version: inc.Version, Origin: OriginSnapshot}
		}

		merged.Status = entry.Status
		if entry.Version > merged.Version {
			merged.Version = entry.Version
		}

		if merged.Status.Terminal() {
			delete(o.entries, inc.ID)
		} else {
			o.entries[inc.ID] = entry
		}
		out = append(out, &merged)
	}
	return out
}
