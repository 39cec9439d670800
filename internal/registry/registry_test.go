package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestRegistry() *Registry {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestCreateProgram(t *testing.T) {
	r := newTestRegistry()

	id := r.CreateProgram("creator1", "Relaxation Training", "Learn to relax your mind", 30, 1000)
	assert.Equal(t, uint64(1), id)

	program, ok := r.GetProgram(id)
	require.True(t, ok)
	assert.Equal(t, uint64(1), program.ID)
	assert.Equal(t, "creator1", program.Creator)
	assert.Equal(t, "Relaxation Training", program.Title)
	assert.Equal(t, "Learn to relax your mind", program.Description)
	assert.Equal(t, int64(30), program.Duration)
	assert.Equal(t, int64(1000), program.Price)
	assert.True(t, program.Active)
}

func TestCreateProgramAssignsSequentialIDs(t *testing.T) {
	r := newTestRegistry()
	for want := uint64(1); want <= 5; want++ {
		assert.Equal(t, want, r.CreateProgram("c", "T", "D", 30, 1000))
	}
}

func TestUpdateProgram(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("creator1", "Relaxation Training", "Learn to relax your mind", 30, 1000)

	err := r.UpdateProgram("creator1", id, "Advanced Relaxation", "Master relaxation techniques", 45, 1500, true)
	require.NoError(t, err)

	program, _ := r.GetProgram(id)
	assert.Equal(t, "Advanced Relaxation", program.Title)
	assert.Equal(t, "Master relaxation techniques", program.Description)
	assert.Equal(t, int64(45), program.Duration)
	assert.Equal(t, int64(1500), program.Price)
	assert.True(t, program.Active)
	assert.Equal(t, id, program.ID)
	assert.Equal(t, "creator1", program.Creator)
}

func TestUpdateProgramUnauthorized(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("creator1", "Relaxation Training", "Learn to relax your mind", 30, 1000)
	before, _ := r.GetProgram(id)

	err := r.UpdateProgram("creator2", id, "Advanced Relaxation", "Master relaxation techniques", 45, 1500, false)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))

	after, _ := r.GetProgram(id)
	assert.Equal(t, before, after)
}

func TestUpdateMissingProgramIsUnauthorized(t *testing.T) {
	r := newTestRegistry()
	err := r.UpdateProgram("creator1", 7, "T", "D", 30, 1000, true)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))
}

func TestPurchaseProgram(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("creator1", "Relaxation Training", "Learn to relax your mind", 30, 1000)

	require.NoError(t, r.PurchaseProgram("user1", id))

	enrollment, ok := r.GetUserProgram("user1", id)
	require.True(t, ok)
	assert.Equal(t, "user1", enrollment.User)
	assert.Equal(t, id, enrollment.ProgramID)
	assert.Equal(t, fixedNow, enrollment.StartTime)
	assert.False(t, enrollment.Completed)
}

func TestPurchaseInactiveOrMissingProgram(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("creator1", "Relaxation Training", "Learn to relax your mind", 30, 1000)
	require.NoError(t, r.UpdateProgram("creator1", id, "Relaxation Training", "Learn to relax your mind", 30, 1000, false))

	err := r.PurchaseProgram("user1", id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	err = r.PurchaseProgram("user1", 99)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	_, ok := r.GetUserProgram("user1", id)
	assert.False(t, ok)
	assert.Empty(t, r.GetUserPrograms("user1"))
}

func TestPurchaseProgramTwice(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("creator1", "Relaxation Training", "Learn to relax your mind", 30, 1000)

	require.NoError(t, r.PurchaseProgram("user1", id))
	err := r.PurchaseProgram("user1", id)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, CodeConflict, CodeOf(err))
	assert.Len(t, r.GetUserPrograms("user1"), 1)
}

func TestDeactivationKeepsExistingEnrollment(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("creator1", "T", "D", 30, 1000)
	require.NoError(t, r.PurchaseProgram("user1", id))
	require.NoError(t, r.UpdateProgram("creator1", id, "T", "D", 30, 1000, false))

	_, ok := r.GetUserProgram("user1", id)
	assert.True(t, ok)
	assert.NoError(t, r.CompleteProgram("user1", id))
}

func TestCompleteProgram(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("creator1", "Relaxation Training", "Learn to relax your mind", 30, 1000)
	require.NoError(t, r.PurchaseProgram("user1", id))

	require.NoError(t, r.CompleteProgram("user1", id))
	enrollment, _ := r.GetUserProgram("user1", id)
	assert.True(t, enrollment.Completed)

	// idempotent
	require.NoError(t, r.CompleteProgram("user1", id))
	enrollment, _ = r.GetUserProgram("user1", id)
	assert.True(t, enrollment.Completed)
}

func TestCompleteProgramWithoutPurchase(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("creator1", "T", "D", 30, 1000)

	err := r.CompleteProgram("user1", id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestGetProgramAbsent(t *testing.T) {
	r := newTestRegistry()
	_, ok := r.GetProgram(1)
	assert.False(t, ok)
	_, ok = r.GetUserProgram("user1", 1)
	assert.False(t, ok)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("creator1", "T", "D", 30, 1000)
	require.NoError(t, r.PurchaseProgram("user1", id))

	program, _ := r.GetProgram(id)
	program.Title = "changed"
	enrollment, _ := r.GetUserProgram("user1", id)
	enrollment.Completed = true

	program, _ = r.GetProgram(id)
	enrollment, _ = r.GetUserProgram("user1", id)
	assert.Equal(t, "T", program.Title)
	assert.False(t, enrollment.Completed)
}

func TestGetUserProgramsLimit(t *testing.T) {
	r := newTestRegistry()
	for i := 1; i <= 12; i++ {
		id := r.CreateProgram(fmt.Sprintf("creator%d", i), fmt.Sprintf("Program %d", i), fmt.Sprintf("Description %d", i), 30, 1000)
		if i <= 10 {
			require.NoError(t, r.PurchaseProgram("user1", id))
		}
	}

	programs := r.GetUserPrograms("user1")
	require.Len(t, programs, 10)
	assert.Equal(t, "Program 1", programs[0].Program.Title)
	assert.Equal(t, "Program 10", programs[9].Program.Title)
	assert.Equal(t, uint64(10), programs[9].Enrollment.ProgramID)
}

func TestGetUserProgramsPurchaseOrder(t *testing.T) {
	r := newTestRegistry()
	for i := 1; i <= 3; i++ {
		r.CreateProgram("c", fmt.Sprintf("Program %d", i), "D", 30, 1000)
	}
	require.NoError(t, r.PurchaseProgram("user1", 3))
	require.NoError(t, r.PurchaseProgram("user1", 1))
	require.NoError(t, r.PurchaseProgram("user1", 2))

	programs := r.GetUserPrograms("user1")
	require.Len(t, programs, 3)
	assert.Equal(t, uint64(3), programs[0].Program.ID)
	assert.Equal(t, uint64(1), programs[1].Program.ID)
	assert.Equal(t, uint64(2), programs[2].Program.ID)
}

func TestGetUserProgramsMatchesWholeUser(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("c", "T", "D", 30, 1000)
	require.NoError(t, r.PurchaseProgram("user10", id))
	require.NoError(t, r.PurchaseProgram("user:1", id))

	assert.Empty(t, r.GetUserPrograms("user1"))
	assert.Empty(t, r.GetUserPrograms("user"))
	assert.Len(t, r.GetUserPrograms("user:1"), 1)
	_, ok := r.GetUserProgram("user", id)
	assert.False(t, ok)
}

func TestListUserProgramsPagination(t *testing.T) {
	r := newTestRegistry()
	for i := 1; i <= 12; i++ {
		id := r.CreateProgram("c", fmt.Sprintf("Program %d", i), "D", 30, 1000)
		require.NoError(t, r.PurchaseProgram("user1", id))
	}

	page, total := r.ListUserPrograms("user1", 10, 0)
	assert.Equal(t, 12, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Program 11", page[0].Program.Title)
	assert.Equal(t, "Program 12", page[1].Program.Title)

	page, total = r.ListUserPrograms("user1", 3, 4)
	assert.Equal(t, 12, total)
	require.Len(t, page, 4)
	assert.Equal(t, uint64(4), page[0].Program.ID)

	page, _ = r.ListUserPrograms("user1", 50, 5)
	assert.Empty(t, page)
}

func TestListProgramsAndProgramsByCreator(t *testing.T) {
	r := newTestRegistry()
	r.CreateProgram("alice", "A1", "D", 30, 1000)
	r.CreateProgram("bob", "B1", "D", 30, 1000)
	r.CreateProgram("alice", "A2", "D", 30, 1000)
	require.NoError(t, r.UpdateProgram("alice", 1, "A1", "D", 30, 1000, false))

	all, total := r.ListPrograms(false, 0, 10)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 3)

	active, total := r.ListPrograms(true, 0, 10)
	assert.Equal(t, 2, total)
	require.Len(t, active, 2)
	assert.Equal(t, "B1", active[0].Title)

	page, _ := r.ListPrograms(false, 1, 1)
	require.Len(t, page, 1)
	assert.Equal(t, "B1", page[0].Title)

	mine := r.ProgramsByCreator("alice")
	require.Len(t, mine, 2)
	assert.Equal(t, "A1", mine[0].Title)
	assert.Equal(t, "A2", mine[1].Title)
	assert.Empty(t, r.ProgramsByCreator("carol"))
}

func TestStats(t *testing.T) {
	r := newTestRegistry()
	r.CreateProgram("c", "T1", "D", 30, 1000)
	r.CreateProgram("c", "T2", "D", 30, 1000)
	require.NoError(t, r.PurchaseProgram("u1", 1))
	require.NoError(t, r.PurchaseProgram("u2", 1))
	require.NoError(t, r.CompleteProgram("u1", 1))
	require.NoError(t, r.UpdateProgram("c", 2, "T2", "D", 30, 1000, false))

	assert.Equal(t, Stats{Programs: 2, ActivePrograms: 1, Enrollments: 2, CompletedEnrollments: 1}, r.Stats())
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Equal(t, 0, CodeOf(nil))
	assert.Equal(t, 0, CodeOf(fmt.Errorf("boom")))
	assert.Equal(t, CodeConflict, CodeOf(fmt.Errorf("wrapped: %w", ErrConflict)))
}

func TestConcurrentPurchasesKeepOneEnrollment(t *testing.T) {
	r := newTestRegistry()
	id := r.CreateProgram("c", "T", "D", 30, 1000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.PurchaseProgram("user1", id) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Len(t, r.GetUserPrograms("user1"), 1)
}
