package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shenikar/crisis_mesh/internal/models"
)

const volunteerColumns = `id, name, phone, on_duty, available, skills, rating, latitude, longitude`

// ListVolunteers возвращает всех волонтеров по имени
func (r *IncidentRepository) ListVolunteers(ctx context.Context) ([]*models.Volunteer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+volunteerColumns+` FROM volunteers ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	defer rows.Close()

	volunteers := make([]*models.Volunteer, 0)
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volunteer row: %w", err)
		}
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error volunteer iteration: %w", err)
	}
	return volunteers, nil
}

// GetVolunteer возвращает волонтера по UUID
func (r *IncidentRepository) GetVolunteer(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	v, err := scanVolunteer(r.db.QueryRow(ctx, `SELECT `+volunteerColumns+` FROM volunteers WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	return v, nil
}

// SetVolunteerDuty обновляет флаги дежурства
func (r *IncidentRepository) SetVolunteerDuty(ctx context.Context, id uuid.UUID, onDuty, available bool) (*models.Volunteer, error) {
	query := `
		UPDATE volunteers SET on_duty = $2, available = $3
		WHERE id = $1
		RETURNING ` + volunteerColumns + `;
	`
	v, err := scanVolunteer(r.db.QueryRow(ctx, query, id, onDuty, available))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update volunteer duty: %w", err)
	}
	return v, nil
}

func scanVolunteer(row rowScanner) (*models.Volunteer, error) {
	v := &models.Volunteer{}
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Phone,
		&v.OnDuty,
		&v.Available,
		&v.Skills,
		&v.Rating,
		&v.Location.Latitude,
		&v.Location.Longitude,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}
