package reconcile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/models"
)

// ErrRejected - координатор отклонил действие (409)
var ErrRejected = errors.New("action rejected by coordinator")

// SnapshotSource - авторитетный источник снимков и действий
type SnapshotSource interface {
	Incidents(ctx context.Context, limit int) ([]*models.Incident, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Volunteers(ctx context.Context) ([]*models.Volunteer, error)
	Act(ctx context.Context, id uuid.UUID, status models.Status, volunteerID *uuid.UUID) (*models.Incident, error)
}

// HTTPSource читает снимки из HTTP API координатора
type HTTPSource struct {
	client *resty.Client
}

// NewHTTPSource создает источник для baseURL вида http://host:8080/api/v1
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

type apiError struct {
	Error string `json:"error"`
}

type actionRequest struct {
	Status      models.Status `json:"status"`
	VolunteerID *uuid.UUID    `json:"volunteerId,omitempty"`
}

func (s *HTTPSource) Incidents(ctx context.Context, limit int) ([]*models.Incident, error) {
	var out []*models.Incident
	err := s.get(ctx, "/incidents", map[string]string{"limit": strconv.Itoa(limit)}, &out)
	return out, err
}

func (s *HTTPSource) Stats(ctx context.Context) (*models.Stats, error) {
	out := &models.Stats{}
	if err := s.get(ctx, "/incidents/stats", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Volunteers(ctx context.Context) ([]*models.Volunteer, error) {
	var out []*models.Volunteer
	err := s.get(ctx, "/volunteers", nil, &out)
	return out, err
}

func (s *HTTPSource) Act(ctx context.Context, id uuid.UUID, status models.Status, volunteerID *uuid.UUID) (*models.Incident, error) {
	out := &models.Incident{}
	var apiErr apiError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(actionRequest{Status: status, VolunteerID: volunteerID}).
		SetResult(out).
		SetError(&apiErr).
		Post("/incidents/" + id.String() + "/action")
	if err != nil {
		return nil, fmt.Errorf("action request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return nil, fmt.Errorf("%w: %s", ErrRejected, apiErr.Error)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("action returned status %d: %s", resp.StatusCode(), apiErr.Error)
	}
	return out, nil
}

func (s *HTTPSource) get(ctx context.Context, path string, query map[string]string, result any) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(result).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s failed: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("GET %s returned status %d", path, resp.StatusCode())
	}
	return nil
}
