package service

import (
	"context"
	"errors"
	"log/slog"

	"alcyxob/neurofeedback-app/internal/domain"
	"alcyxob/neurofeedback-app/internal/metrics"
	"alcyxob/neurofeedback-app/internal/registry"
)

var (
	ErrProgramNotFound    = errors.New("program not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// Operation names used in logs and metrics.
const (
	OpCreate   = "create_program"
	OpUpdate   = "update_program"
	OpPurchase = "purchase_program"
	OpComplete = "complete_program"
)

// Registry is the part of *registry.Registry the services depend on.
type Registry interface {
	CreateProgram(creator, title, description string, duration, price int64) uint64
	UpdateProgram(sender string, programID uint64, title, description string, duration, price int64, active bool) error
	PurchaseProgram(buyer string, programID uint64) error
	CompleteProgram(user string, programID uint64) error
	GetProgram(programID uint64) (domain.Program, bool)
	GetUserProgram(user string, programID uint64) (domain.Enrollment, bool)
	ListUserPrograms(user string, offset, limit int) ([]domain.UserProgram, int)
	ListPrograms(activeOnly bool, offset, limit int) ([]domain.Program, int)
	ProgramsByCreator(creator string) []domain.Program
	Stats() registry.Stats
}

// ProgramService exposes the registry with logging and metrics.
// Registry errors are returned unchanged so registry.CodeOf keeps working.
type ProgramService interface {
	CreateProgram(ctx context.Context, creator, title, description string, duration, price int64) (domain.Program, error)
	UpdateProgram(ctx context.Context, sender string, programID uint64, title, description string, duration, price int64, active bool) (domain.Program, error)
	PurchaseProgram(ctx context.Context, buyer string, programID uint64) (domain.Enrollment, error)
	CompleteProgram(ctx context.Context, user string, programID uint64) (domain.Enrollment, error)
	GetProgram(ctx context.Context, programID uint64) (domain.Program, error)
	GetUserProgram(ctx context.Context, user string, programID uint64) (domain.Enrollment, error)
	GetUserPrograms(ctx context.Context, user string, offset, limit int) ([]domain.UserProgram, int, error)
	ListPrograms(ctx context.Context, activeOnly bool, offset, limit int) ([]domain.Program, int, error)
	ProgramsByCreator(ctx context.Context, creator string) ([]domain.Program, error)
}

type programService struct {
	reg     Registry
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewProgramService creates a ProgramService on top of reg.
func NewProgramService(reg Registry, m *metrics.Metrics, log *slog.Logger) ProgramService {
	s := &programService{reg: reg, metrics: m, log: log}
	s.metrics.SetStats(reg.Stats())
	return s
}

func (s *programService) CreateProgram(ctx context.Context, creator, title, description string, duration, price int64) (domain.Program, error) {
	id := s.reg.CreateProgram(creator, title, description, duration, price)
	s.observe(ctx, OpCreate, creator, id, nil)
	program, _ := s.reg.GetProgram(id)
	return program, nil
}

func (s *programService) UpdateProgram(ctx context.Context, sender string, programID uint64, title, description string, duration, price int64, active bool) (domain.Program, error) {
	err := s.reg.UpdateProgram(sender, programID, title, description, duration, price, active)
	s.observe(ctx, OpUpdate, sender, programID, err)
	if err != nil {
		return domain.Program{}, err
	}
	program, _ := s.reg.GetProgram(programID)
	return program, nil
}

func (s *programService) PurchaseProgram(ctx context.Context, buyer string, programID uint64) (domain.Enrollment, error) {
	err := s.reg.PurchaseProgram(buyer, programID)
	s.observe(ctx, OpPurchase, buyer, programID, err)
	if err != nil {
		return domain.Enrollment{}, err
	}
	enrollment, _ := s.reg.GetUserProgram(buyer, programID)
	return enrollment, nil
}

func (s *programService) CompleteProgram(ctx context.Context, user string, programID uint64) (domain.Enrollment, error) {
	err := s.reg.CompleteProgram(user, programID)
	s.observe(ctx, OpComplete, user, programID, err)
	if err != nil {
		return domain.Enrollment{}, err
	}
	enrollment, _ := s.reg.GetUserProgram(user, programID)
	return enrollment, nil
}

func (s *programService) GetProgram(ctx context.Context, programID uint64) (domain.Program, error) {
	program, ok := s.reg.GetProgram(programID)
	if !ok {
		return domain.Program{}, ErrProgramNotFound
	}
	return program, nil
}

func (s *programService) GetUserProgram(ctx context.Context, user string, programID uint64) (domain.Enrollment, error) {
	enrollment, ok := s.reg.GetUserProgram(user, programID)
	if !ok {
		return domain.Enrollment{}, ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (s *programService) GetUserPrograms(ctx context.Context, user string, offset, limit int) ([]domain.UserProgram, int, error) {
	page, total := s.reg.ListUserPrograms(user, offset, limit)
	return page, total, nil
}

func (s *programService) ListPrograms(ctx context.Context, activeOnly bool, offset, limit int) ([]domain.Program, int, error) {
	page, total := s.reg.ListPrograms(activeOnly, offset, limit)
	return page, total, nil
}

func (s *programService) ProgramsByCreator(ctx context.Context, creator string) ([]domain.Program, error) {
	return s.reg.ProgramsByCreator(creator), nil
}

// observe logs and counts a mutating call and refreshes the gauges.
func (s *programService) observe(ctx context.Context, op, principal string, programID uint64, err error) {
	s.metrics.ObserveOperation(op, err)
	if err != nil {
		s.log.WarnContext(ctx, "registry operation rejected",
			"operation", op, "principal", principal, "program_id", programID,
			"code", registry.CodeOf(err), "error", err)
		return
	}
	s.log.InfoContext(ctx, "registry operation applied",
		"operation", op, "principal", principal, "program_id", programID)
	s.metrics.SetStats(s.reg.Stats())
}
