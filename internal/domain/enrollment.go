package domain

import "time"

// EnrollmentKey identifies one user's enrollment in one program.
type EnrollmentKey struct {
	User      string
	ProgramID uint64
}

// Enrollment is created when a user purchases a program.
type Enrollment struct {
	User      string    `json:"user"`
	ProgramID uint64    `json:"programId"`
	StartTime time.Time `json:"startTime"` // Captured at purchase
	Completed bool      `json:"completed"`
}

// Key returns the composite key of the enrollment.
func (e *Enrollment) Key() EnrollmentKey {
	return EnrollmentKey{User: e.User, ProgramID: e.ProgramID}
}

// UserProgram pairs an enrollment with the program it refers to.
type UserProgram struct {
	Program    Program    `json:"program"`
	Enrollment Enrollment `json:"enrollment"`
}
