// Package repotest holds a behaviour suite shared by every store backend.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/models"
	"focusflow/repository"
	"focusflow/validation"
)

func str(s string) *string { return &s }

// Habit returns a valid create request.
func Habit(title string) models.HabitRequest {
	return models.HabitRequest{Title: str(title), Description: str(title + " every day")}
}

// Run exercises a store returned fresh by makeStore for every subtest.
func Run(t *testing.T, makeStore func(t *testing.T) repository.Store) {
	t.Helper()

	t.Run("CreateAndGet", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()

		req := Habit("Read")
		req.Category = str("Learning")
		req.Streak = models.IntValue(3)
		req.TargetDate = models.StringValue("2026-12-31")

		h, err := s.Habits().Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 1, h.ID)
		assert.Equal(t, "Learning", h.Category)
		assert.Equal(t, models.DefaultFrequency, h.Frequency)
		assert.Equal(t, models.DefaultPriority, h.Priority)
		assert.Equal(t, models.DefaultStatus, h.Status)
		assert.Equal(t, h.CreatedAt, h.UpdatedAt)

		got, err := s.Habits().GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, *h, *got)
		assert.Equal(t, 3, got.Streak)
		require.NotNil(t, got.TargetDate)
		assert.Equal(t, "2026-12-31", *got.TargetDate)

		second, err := s.Habits().Create(ctx, Habit("Run"))
		require.NoError(t, err)
		assert.Equal(t, 2, second.ID)
	})

	t.Run("CreateRejectsInvalid", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()

		_, err := s.Habits().Create(ctx, Habit("   "))
		require.Error(t, err)
		assert.True(t, validation.IsValidation(err))

		list, err := s.Habits().List(ctx, models.HabitQuery{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := makeStore(t)
		_, err := s.Habits().GetByID(context.Background(), 42)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ListSortedByID", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		for _, title := range []string{"a", "b", "c"} {
			_, err := s.Habits().Create(ctx, Habit(title))
			require.NoError(t, err)
		}
		list, err := s.Habits().List(ctx, models.HabitQuery{})
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i, h := range list {
			assert.Equal(t, i+1, h.ID)
		}
	})

	t.Run("ListFilterSortProject", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		for i, streak := range []int{5, 9, 1} {
			req := Habit([]string{"x", "y", "z"}[i])
			req.Streak = models.IntValue(streak)
			if i == 1 {
				req.Status = str("Paused")
			}
			_, err := s.Habits().Create(ctx, req)
			require.NoError(t, err)
		}

		active, err := s.Habits().List(ctx, models.HabitQuery{Filter: models.HabitFilter{Status: "Active"}})
		require.NoError(t, err)
		require.Len(t, active, 2)

		byStreak, err := s.Habits().List(ctx, models.HabitQuery{SortField: "streak", SortDesc: true})
		require.NoError(t, err)
		require.Len(t, byStreak, 3)
		assert.Equal(t, []int{9, 5, 1}, []int{byStreak[0].Streak, byStreak[1].Streak, byStreak[2].Streak})

		projected, err := s.Habits().List(ctx, models.HabitQuery{Fields: []string{"title"}})
		require.NoError(t, err)
		require.Len(t, projected, 3)
		assert.Equal(t, "x", projected[0].Title)
		assert.Equal(t, 1, projected[0].ID)
		assert.Empty(t, projected[0].Description)
		assert.Zero(t, projected[0].Streak)
	})

	t.Run("Update", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		req := Habit("Walk")
		req.Streak = models.IntValue(4)
		h, err := s.Habits().Create(ctx, req)
		require.NoError(t, err)

		// give updated_at room to move
		time.Sleep(2 * time.Millisecond)

		upd := Habit("Walk")
		upd.Status = str("Completed")
		changed, err := s.Habits().Update(ctx, h.ID, upd)
		require.NoError(t, err)
		assert.True(t, changed)

		got, err := s.Habits().GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Completed", got.Status)
		assert.Equal(t, 4, got.Streak, "omitted fields keep their value")
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))

		changed, err = s.Habits().Update(ctx, h.ID, upd)
		require.NoError(t, err)
		assert.False(t, changed, "identical content is not a write")
	})

	t.Run("UpdateMissingAndInvalid", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		_, err := s.Habits().Update(ctx, 99, Habit("nothing"))
		assert.ErrorIs(t, err, repository.ErrNotFound)

		h, err := s.Habits().Create(ctx, Habit("Stretch"))
		require.NoError(t, err)
		bad := Habit("Stretch")
		bad.Priority = str("Urgent")
		_, err = s.Habits().Update(ctx, h.ID, bad)
		assert.True(t, validation.IsValidation(err))
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		h, err := s.Habits().Create(ctx, Habit("Floss"))
		require.NoError(t, err)

		ok, err := s.Habits().Delete(ctx, h.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Habits().Delete(ctx, h.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("IDsAfterDelete", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		for _, title := range []string{"a", "b"} {
			_, err := s.Habits().Create(ctx, Habit(title))
			require.NoError(t, err)
		}
		_, err := s.Habits().Delete(ctx, 1)
		require.NoError(t, err)
		h, err := s.Habits().Create(ctx, Habit("c"))
		require.NoError(t, err)
		assert.Equal(t, 3, h.ID)
	})

	t.Run("ConcurrentCreate", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		const n = 4
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Habits().Create(ctx, Habit("parallel"))
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
		list, err := s.Habits().List(ctx, models.HabitQuery{})
		require.NoError(t, err)
		require.Len(t, list, n)
		for i, h := range list {
			assert.Equal(t, i+1, h.ID, "ids are unique and listed in ascending order")
		}
	})

	t.Run("ConcurrentUpdatesKeepOtherFields", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		h, err := s.Habits().Create(ctx, Habit("Journal"))
		require.NoError(t, err)

		const n = 100
		var wg sync.WaitGroup
		errs := make(chan error, 2*n)
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 1; i <= n; i++ {
				req := Habit("Journal")
				req.Streak = models.IntValue(i)
				_, err := s.Habits().Update(ctx, h.ID, req)
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			for i := 1; i <= n; i++ {
				req := Habit("Journal")
				req.Notes = str(fmt.Sprintf("note %d", i))
				_, err := s.Habits().Update(ctx, h.ID, req)
				errs <- err
			}
		}()
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := s.Habits().GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, n, got.Streak)
		assert.Equal(t, fmt.Sprintf("note %d", n), got.Notes)
	})

	t.Run("Reset", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		_, err := s.Habits().Create(ctx, Habit("a"))
		require.NoError(t, err)
		require.NoError(t, s.Habits().Reset(ctx))
		list, err := s.Habits().List(ctx, models.HabitQuery{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Users", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()

		u, err := s.Users().Create(ctx, "alice", "Alice@Example.com", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Empty(t, u.Password)
		assert.Equal(t, "alice@example.com", u.Email)

		_, err = s.Users().Create(ctx, "alice", "other@example.com", "secret1")
		assert.ErrorIs(t, err, repository.ErrDuplicateUser)
		_, err = s.Users().Create(ctx, "bob", "ALICE@example.com", "secret1")
		assert.ErrorIs(t, err, repository.ErrDuplicateUser)

		found, err := s.Users().FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)
		assert.NotEqual(t, "secret1", found.Password)

		byEmail, err := s.Users().FindByEmail(ctx, "ALICE@example.COM")
		require.NoError(t, err)
		assert.Equal(t, "alice", byEmail.Username)

		ok, err := s.Users().VerifyPassword(found, "secret1")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = s.Users().VerifyPassword(found, "wrong-pass")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Users().FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Ping", func(t *testing.T) {
		s := makeStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
