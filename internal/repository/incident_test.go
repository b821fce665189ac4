package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: activeVolunteerIndex})

	assert.True(t, isUniqueViolation(err, activeVolunteerIndex))
	assert.False(t, isUniqueViolation(err, openReporterIndex))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503", ConstraintName: activeVolunteerIndex}, activeVolunteerIndex))
	assert.False(t, isUniqueViolation(fmt.Errorf("plain"), activeVolunteerIndex))
}

func TestContainsStatus(t *testing.T) {
	assert.True(t, containsStatus(models.AwaitingStatuses, models.StatusPending))
	assert.False(t, containsStatus(models.AwaitingStatuses, models.StatusAccepted))
}

func TestCache_DisabledWithoutRedis(t *testing.T) {
	repo := NewIncidentRepository(nil, nil, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	cached, err := repo.GetIncidentFromCache(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.NoError(t, repo.SetIncidentCache(ctx, &models.Incident{ID: id}))
	assert.NoError(t, repo.InvalidateIncidentCache(ctx, id))
}

func TestIncidentCacheKey(t *testing.T) {
	id := uuid.MustParse("0b8f7a1e-4a52-4c1c-9d43-8f0e3c8b2a11")
	assert.Equal(t, "incident:0b8f7a1e-4a52-4c1c-9d43-8f0e3c8b2a11", incidentCacheKey(id))
}
