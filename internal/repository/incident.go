package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/shenikar/crisis_mesh/internal/service"
)

const (
	pgUniqueViolation = "23505"

	openReporterIndex    = "incidents_open_reporter_idx"
	activeVolunteerIndex = "incidents_active_volunteer_idx"
	incidentColumns      = `id, reporter_contact, message, classification, status, location_hint, assigned_volunteer_id, version, created_at, updated_at`
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

// NewIncidentRepository создает хранилище. redisClient может быть nil, тогда кеш отключен
func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create сохраняет инцидент, первую запись журнала и первое сообщение в одной транзакции
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	classification, err := json.Marshal(incident.Classification)
	if err != nil {
		return fmt.Errorf("failed to marshal classification: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO incidents (id, reporter_contact, message, classification, category, urgency,
			police_needed, community_resolution, status, location_hint, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'open', $9, 1, $10, $10)
		RETURNING status, version, created_at, updated_at;
	`
	err = tx.QueryRow(ctx, query,
		incident.ID,
		incident.ReporterContact,
		incident.Message,
		classification,
		incident.Classification.Category,
		incident.Classification.Urgency,
		incident.Classification.PoliceNeeded,
		incident.Classification.CommunityResolution,
		incident.LocationHint,
		incident.CreatedAt,
	).Scan(&incident.Status, &incident.Version, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, openReporterIndex) {
			return models.ErrOpenIncidentExists
		}
		return fmt.Errorf("failed to create incident: %w", err)
	}

	if err := insertStatusChange(ctx, tx, incident.ID, nil, models.StatusOpen, nil, incident.Version); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO incident_messages (incident_id, sender, body, sent_at)
		VALUES ($1, $2, $3, $4);
	`, incident.ID, models.SenderReporter, incident.Message, incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save first message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// FindOpenByReporter возвращает незакрытый инцидент отправителя или nil
func (r *IncidentRepository) FindOpenByReporter(ctx context.Context, reporter string) (*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE reporter_contact = $1 AND status <> 'resolved'
		ORDER BY created_at DESC
		LIMIT 1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, reporter))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open incident: %w", err)
	}
	return incident, nil
}

// ListIncidents возвращает последние инциденты, новые первыми
func (r *IncidentRepository) ListIncidents(ctx context.Context, limit int) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// UpdateStatus - compare-and-set под блокировкой строки. Занятость волонтера
// гарантирует частичный уникальный индекс по assigned_volunteer_id
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []models.Status, to models.Status, volunteerID *uuid.UUID) (*models.Incident, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current models.Status
	err = tx.QueryRow(ctx, `SELECT status FROM incidents WHERE id = $1 FOR UPDATE;`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock incident: %w", err)
	}
	if !containsStatus(from, current) {
		return nil, models.ErrStatusConflict
	}

	query := `
		UPDATE incidents SET
			status = $2,
			assigned_volunteer_id = COALESCE($3, assigned_volunteer_id),
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + incidentColumns + `;
	`
	incident, err := scanIncident(tx.QueryRow(ctx, query, id, to, volunteerID))
	if err != nil {
		if isUniqueViolation(err, activeVolunteerIndex) {
			return nil, models.ErrVolunteerBusy
		}
		return nil, fmt.Errorf("failed to update incident status: %w", err)
	}

	if err := insertStatusChange(ctx, tx, id, &current, to, volunteerID, incident.Version); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}
	return incident, nil
}

// History возвращает журнал переходов в порядке версий
func (r *IncidentRepository) History(ctx context.Context, id uuid.UUID) ([]models.StatusChange, error) {
	query := `
		SELECT id, incident_id, COALESCE(from_status, ''), to_status, volunteer_id, version, changed_at
		FROM incident_status_changes
		WHERE incident_id = $1
		ORDER BY version ASC;
	`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	changes := make([]models.StatusChange, 0)
	for rows.Next() {
		var c models.StatusChange
		if err := rows.Scan(&c.ID, &c.IncidentID, &c.From, &c.To, &c.VolunteerID, &c.Version, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error history iteration: %w", err)
	}
	return changes, nil
}

// AppendMessage дописывает сообщение к инциденту
func (r *IncidentRepository) AppendMessage(ctx context.Context, msg *models.IncidentMessage) error {
	cmdTag, err := r.db.Exec(ctx, `
		INSERT INTO incident_messages (incident_id, sender, body, sent_at)
		SELECT id, $2, $3, $4 FROM incidents WHERE id = $1;
	`, msg.IncidentID, msg.Sender, msg.Body, msg.SentAt)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListMessages возвращает сообщения инцидента по порядку
func (r *IncidentRepository) ListMessages(ctx context.Context, id uuid.UUID) ([]models.IncidentMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT incident_id, sender, body, sent_at
		FROM incident_messages
		WHERE incident_id = $1
		ORDER BY id ASC;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.IncidentMessage, 0)
	for rows.Next() {
		var m models.IncidentMessage
		if err := rows.Scan(&m.IncidentID, &m.Sender, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error message iteration: %w", err)
	}
	return messages, nil
}

// GetStats считает агрегаты по всем инцидентам
func (r *IncidentRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE police_needed),
			COUNT(*) FILTER (WHERE community_resolution),
			(SELECT COUNT(*) FROM volunteers WHERE on_duty)
		FROM incidents;
	`
	stats := &models.Stats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Resolved,
		&stats.PoliceInvolved,
		&stats.CommunityResolved,
		&stats.VolunteersOnDuty,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	stats.Open = stats.Total - stats.Resolved
	stats.PoliceInvolvedPercentage = models.Percent(stats.PoliceInvolved, stats.Total)
	stats.CommunityPercentage = models.Percent(stats.CommunityResolved, stats.Total)
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (*models.Incident, error) {
	incident := &models.Incident{}
	var classification []byte
	err := row.Scan(
		&incident.ID,
		&incident.ReporterContact,
		&incident.Message,
		&classification,
		&incident.Status,
		&incident.LocationHint,
		&incident.AssignedVolunteerID,
		&incident.Version,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(classification, &incident.Classification); err != nil {
		return nil, fmt.Errorf("failed to unmarshal classification: %w", err)
	}
	return incident, nil
}

func insertStatusChange(ctx context.Context, tx pgx.Tx, incidentID uuid.UUID, from *models.Status, to models.Status, volunteerID *uuid.UUID, version int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO incident_status_changes (id, incident_id, from_status, to_status, volunteer_id, version, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW());
	`, uuid.New(), incidentID, from, to, volunteerID, version)
	if err != nil {
		return fmt.Errorf("failed to record status change: %w", err)
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

func containsStatus(statuses []models.Status, s models.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
