package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/observability"
	"github.com/spec-kit/department-service/internal/repository"
	apperrors "github.com/spec-kit/department-service/pkg/util/errorutil"
)

// Caller-visible messages. Store causes are logged, never returned.
const (
	MsgFieldsRequired = "Name and URL are required"
	MsgInvalidID      = "Invalid department id"
	MsgListFailed     = "Failed to fetch departments"
	MsgGetFailed      = "Failed to fetch department"
	MsgCreateFailed   = "Failed to create department"
	MsgUpdateFailed   = "Failed to update department"
	MsgDeleteFailed   = "Failed to delete department"
)

const resourceDepartment = "Department"

// DepartmentInput is the client-supplied part of a department.
type DepartmentInput struct {
	Name string
	URL  string
}

// Validate requires both fields to be non-empty.
func (in DepartmentInput) Validate() error {
	if in.Name == "" || in.URL == "" {
		missing := make([]string, 0, 2)
		if in.Name == "" {
			missing = append(missing, "name")
		}
		if in.URL == "" {
			missing = append(missing, "url")
		}
		return apperrors.NewValidationError(MsgFieldsRequired, map[string]any{"missing": missing})
	}
	return nil
}

// ParseDepartmentID parses a path id; only positive integers are accepted.
func ParseDepartmentID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(MsgInvalidID, map[string]any{"id": raw})
	}
	return id, nil
}

// DepartmentDependencies bundles collaborators of DepartmentService.
type DepartmentDependencies struct {
	Repo       repository.DepartmentRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// DepartmentService implements list/get/create/update/delete over the store.
// It holds no state of its own between calls.
type DepartmentService struct {
	repo       repository.DepartmentRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	strictIDs  bool
}

// NewDepartmentService constructs the service.
func NewDepartmentService(cfg config.DepartmentsConfig, deps DepartmentDependencies) *DepartmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{
		repo:       deps.Repo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		strictIDs:  cfg.StrictIDs,
	}
}

// List returns every department ordered by name.
func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	depts, err := s.repo.List(ctx)
	if err != nil {
		s.metrics.RecordOperation("list", "error")
		return nil, apperrors.NewInternalError(MsgListFailed, err)
	}
	s.metrics.RecordOperation("list", "ok")
	return depts, nil
}

// Get returns a single department.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*domain.Department, error) {
	dept, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordOperation("get", "not_found")
			return nil, apperrors.NewNotFound(resourceDepartment, map[string]any{"id": id})
		}
		s.metrics.RecordOperation("get", "error")
		return nil, apperrors.NewInternalError(MsgGetFailed, err)
	}
	s.metrics.RecordOperation("get", "ok")
	return dept, nil
}

// Create validates input, inserts it and returns the record with its new id.
func (s *DepartmentService) Create(ctx context.Context, in DepartmentInput) (*domain.Department, error) {
	if err := in.Validate(); err != nil {
		s.metrics.RecordOperation("create", "invalid")
		return nil, err
	}
	dept := &domain.Department{Name: in.Name, URL: in.URL}
	if err := s.repo.Create(ctx, dept); err != nil {
		s.metrics.RecordOperation("create", "error")
		return nil, apperrors.NewInternalError(MsgCreateFailed, err)
	}
	s.metrics.RecordOperation("create", "ok")
	s.publish(ctx, events.NewDepartmentEvent(events.EventDepartmentCreated, *dept))
	return dept, nil
}

// Update overwrites name and url of id. Unless strict ids are enabled a
// missing row is not reported and the given values are echoed back.
func (s *DepartmentService) Update(ctx context.Context, id int64, in DepartmentInput) (*domain.Department, error) {
	if err := in.Validate(); err != nil {
		s.metrics.RecordOperation("update", "invalid")
		return nil, err
	}
	dept := &domain.Department{ID: id, Name: in.Name, URL: in.URL}
	if err := s.repo.Update(ctx, dept); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordOperation("update", "error")
			return nil, apperrors.NewInternalError(MsgUpdateFailed, err)
		}
		s.metrics.RecordOperation("update", "not_found")
		if s.strictIDs {
			return nil, apperrors.NewNotFound(resourceDepartment, map[string]any{"id": id})
		}
		return dept, nil
	}
	s.metrics.RecordOperation("update", "ok")
	s.publish(ctx, events.NewDepartmentEvent(events.EventDepartmentUpdated, *dept))
	return dept, nil
}

// Delete removes id. Unless strict ids are enabled a missing row still succeeds.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordOperation("delete", "error")
			return apperrors.NewInternalError(MsgDeleteFailed, err)
		}
		s.metrics.RecordOperation("delete", "not_found")
		if s.strictIDs {
			return apperrors.NewNotFound(resourceDepartment, map[string]any{"id": id})
		}
		return nil
	}
	s.metrics.RecordOperation("delete", "ok")
	s.publish(ctx, events.NewDepartmentEvent(events.EventDepartmentDeleted, domain.Department{ID: id}))
	return nil
}

func (s *DepartmentService) publish(ctx context.Context, evt events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, evt); err != nil {
		s.logger.Warn("department event delivery failed",
			zap.String("event_type", string(evt.Type)),
			zap.Int64("department_id", evt.DepartmentID),
			zap.Error(err))
	}
}
