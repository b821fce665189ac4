package memstore

import (
	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/models"
)

// DemoVolunteers возвращает волонтеров, которые засеваются миграцией 000002.
// Используется, когда сервер запущен без Postgres
func DemoVolunteers() []*models.Volunteer {
	return []*models.Volunteer{
		{
			ID:        uuid.MustParse("6f1c2a9e-3b4d-4e5f-8a7b-1c2d3e4f5a01"),
			Name:      "Sarah Martinez",
			Phone:     "+16475551234",
			OnDuty:    true,
			Available: true,
			Skills:    []string{"de-escalation", "mental-health"},
			Rating:    4.9,
			Location:  models.GeoPoint{Latitude: 43.2557, Longitude: -79.8711},
		},
		{
			ID:        uuid.MustParse("6f1c2a9e-3b4d-4e5f-8a7b-1c2d3e4f5a02"),
			Name:      "Maria Rodriguez",
			Phone:     "+16475555678",
			OnDuty:    true,
			Available: true,
			Skills:    []string{"crisis-counseling", "medical"},
			Rating:    5.0,
			Location:  models.GeoPoint{Latitude: 43.2560, Longitude: -79.8700},
		},
		{
			ID:        uuid.MustParse("6f1c2a9e-3b4d-4e5f-8a7b-1c2d3e4f5a03"),
			Name:      "Jessica Thompson",
			Phone:     "+16475559999",
			OnDuty:    false,
			Available: true,
			Skills:    []string{"multilingual", "de-escalation"},
			Rating:    4.8,
			Location:  models.GeoPoint{Latitude: 43.2550, Longitude: -79.8720},
		},
	}
}
