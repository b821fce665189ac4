package models

import (
	"time"

	"github.com/google/uuid"
)

// GeoPoint - географическая точка
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Volunteer - волонтер, которого можно назначить на инцидент
type Volunteer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	OnDuty    bool      `json:"onDuty"`
	Available bool      `json:"available"`
	Skills    []string  `json:"skills"`
	Rating    float64   `json:"rating"`
	Location  GeoPoint  `json:"location"`
}

// Mission - снимок активного назначения волонтера на инцидент
type Mission struct {
	IncidentID        uuid.UUID `json:"incidentId"`
	VolunteerID       uuid.UUID `json:"volunteerId"`
	DistanceRemaining float64   `json:"distanceRemaining"`
	ETAMinutes        int       `json:"etaMinutes"`
	Transcript        []string  `json:"transcript"`
	AcceptedAt        time.Time `json:"acceptedAt"`
}
