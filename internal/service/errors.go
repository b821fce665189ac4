package service

import "errors"

// Ошибки координатора. Проверяются через errors.Is
var (
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrAlreadyAssigned        = errors.New("incident already assigned")
	ErrVolunteerBusy          = errors.New("volunteer already holds an active mission")
	ErrVolunteerRequired      = errors.New("volunteer id is required for acceptance")
	ErrIncidentNotFound       = errors.New("incident not found")
	ErrVolunteerNotFound      = errors.New("volunteer not found")
	ErrMissionNotFound        = errors.New("no active mission for incident")
	ErrPersistenceUnavailable = errors.New("incident store unavailable")
)
