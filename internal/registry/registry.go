// Package registry holds training programs and the enrollments of users in them.
package registry

import (
	"sync"
	"time"

	"alcyxob/neurofeedback-app/internal/domain"
)

// DefaultUserProgramsLimit is the page size used when no limit is given.
const DefaultUserProgramsLimit = 10

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the clock used to stamp enrollment start times.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry is an in-memory program and enrollment store.
// All operations hold a single lock for their whole duration.
// Programs are never deleted, so ids 1..lastProgramID are all present.
type Registry struct {
	mu            sync.Mutex
	now           func() time.Time
	lastProgramID uint64
	programs      map[uint64]*domain.Program
	enrollments   map[domain.EnrollmentKey]*domain.Enrollment
	order         []domain.EnrollmentKey // purchase order
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		now:         time.Now,
		programs:    make(map[uint64]*domain.Program),
		enrollments: make(map[domain.EnrollmentKey]*domain.Enrollment),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateProgram stores a new active program and returns its id.
func (r *Registry) CreateProgram(creator, title, description string, duration, price int64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastProgramID++
	r.programs[r.lastProgramID] = &domain.Program{
		ID:          r.lastProgramID,
		Creator:     creator,
		Title:       title,
		Description: description,
		Duration:    duration,
		Price:       price,
		Active:      true,
	}
	return r.lastProgramID
}

// UpdateProgram replaces the mutable fields of a program. Only its creator may do so;
// a missing program is reported the same way as a foreign one.
func (r *Registry) UpdateProgram(sender string, programID uint64, title, description string, duration, price int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	program, ok := r.programs[programID]
	if !ok || program.Creator != sender {
		return ErrUnauthorized
	}
	program.Title = title
	program.Description = description
	program.Duration = duration
	program.Price = price
	program.Active = active
	return nil
}

// PurchaseProgram enrolls buyer in an active program.
func (r *Registry) PurchaseProgram(buyer string, programID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	program, ok := r.programs[programID]
	if !ok || !program.Active {
		return ErrNotFound
	}
	key := domain.EnrollmentKey{User: buyer, ProgramID: programID}
	if _, exists := r.enrollments[key]; exists {
		return ErrConflict
	}
	r.enrollments[key] = &domain.Enrollment{
		User:      buyer,
		ProgramID: programID,
		StartTime: r.now(),
	}
	r.order = append(r.order, key)
	return nil
}

// CompleteProgram marks an enrollment completed. Completing twice is not an error.
func (r *Registry) CompleteProgram(user string, programID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	enrollment, ok := r.enrollments[domain.EnrollmentKey{User: user, ProgramID: programID}]
	if !ok {
		return ErrNotFound
	}
	enrollment.Completed = true
	return nil
}

// GetProgram returns a copy of the program with the given id.
func (r *Registry) GetProgram(programID uint64) (domain.Program, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	program, ok := r.programs[programID]
	if !ok {
		return domain.Program{}, false
	}
	return *program, true
}

// GetUserProgram returns a copy of the enrollment of user in programID.
func (r *Registry) GetUserProgram(user string, programID uint64) (domain.Enrollment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	enrollment, ok := r.enrollments[domain.EnrollmentKey{User: user, ProgramID: programID}]
	if !ok {
		return domain.Enrollment{}, false
	}
	return *enrollment, true
}

// GetUserPrograms returns the first DefaultUserProgramsLimit enrollments of user
// in purchase order.
func (r *Registry) GetUserPrograms(user string) []domain.UserProgram {
	page, _ := r.ListUserPrograms(user, 0, DefaultUserProgramsLimit)
	return page
}

// ListUserPrograms returns one page of the enrollments of user in purchase order,
// together with the total number of enrollments the user has.
// A non-positive limit means DefaultUserProgramsLimit.
func (r *Registry) ListUserPrograms(user string, offset, limit int) ([]domain.UserProgram, int) {
	if limit <= 0 {
		limit = DefaultUserProgramsLimit
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	page := make([]domain.UserProgram, 0, min(limit, len(r.order)))
	total := 0
	for _, key := range r.order {
		if key.User != user {
			continue
		}
		total++
		if total <= offset || len(page) >= limit {
			continue
		}
		page = append(page, domain.UserProgram{
			Program:    *r.programs[key.ProgramID],
			Enrollment: *r.enrollments[key],
		})
	}
	return page, total
}

// ListPrograms returns one page of programs in id order, optionally only the
// active ones, and the number of programs matching the filter.
func (r *Registry) ListPrograms(activeOnly bool, offset, limit int) ([]domain.Program, int) {
	if limit <= 0 {
		limit = DefaultUserProgramsLimit
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	page := make([]domain.Program, 0, min(limit, len(r.programs)))
	total := 0
	for id := uint64(1); id <= r.lastProgramID; id++ {
		program := r.programs[id]
		if activeOnly && !program.Active {
			continue
		}
		total++
		if total <= offset || len(page) >= limit {
			continue
		}
		page = append(page, *program)
	}
	return page, total
}

// ProgramsByCreator returns every program created by creator in id order.
func (r *Registry) ProgramsByCreator(creator string) []domain.Program {
	r.mu.Lock()
	defer r.mu.Unlock()

	programs := []domain.Program{}
	for id := uint64(1); id <= r.lastProgramID; id++ {
		if program := r.programs[id]; program.Creator == creator {
			programs = append(programs, *program)
		}
	}
	return programs
}

// Stats is a snapshot of registry counts.
type Stats struct {
	Programs             int
	ActivePrograms       int
	Enrollments          int
	CompletedEnrollments int
}

// Stats counts programs and enrollments.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{Programs: len(r.programs), Enrollments: len(r.enrollments)}
	for _, program := range r.programs {
		if program.Active {
			s.ActivePrograms++
		}
	}
	for _, enrollment := range r.enrollments {
		if enrollment.Completed {
			s.CompletedEnrollments++
		}
	}
	return s
}
