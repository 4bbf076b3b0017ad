package repository

import (
	"context"
	"fmt"
	"time"

	"focusflow/models"
	"focusflow/validation"
)

// maxInsertAttempts bounds how often a create re-reads the max id after
// losing an insert race to a concurrent create.
const maxInsertAttempts = 5

// insertWithNextID allocates max(id)+1 and inserts under it. The collection
// carries a unique index on id, so two creates that read the same max cannot
// both succeed; the loser sees a duplicate-key error and tries again.
func insertWithNextID(
	ctx context.Context,
	next func(context.Context) (int, error),
	insert func(context.Context, int) error,
	isDuplicate func(error) bool,
) (int, error) {
	var lastErr error
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		id, err := next(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to allocate habit id: %w", err)
		}
		err = insert(ctx, id)
		if err == nil {
			return id, nil
		}
		if !isDuplicate(err) {
			return 0, err
		}
		lastErr = err
	}
	return 0, fmt.Errorf("failed to allocate habit id after %d attempts: %w", maxInsertAttempts, lastErr)
}

// prepareCreate validates the request and stamps the creation time. Stored
// timestamps carry millisecond precision so documents read back compare equal.
func prepareCreate(req models.HabitRequest) (time.Time, error) {
	if err := validation.Habit(req); err != nil {
		return time.Time{}, err
	}
	return now(), nil
}

// prepareUpdate checks req against the stored habit. It returns the fields
// the update writes, always ending with updated_at, or false when applying
// req would leave the content as it is. Only fields present in req are
// written so concurrent updates of different fields do not undo each other.
func prepareUpdate(existing models.Habit, req models.HabitRequest) ([]models.Change, bool, error) {
	if err := validation.Habit(req); err != nil {
		return nil, false, err
	}
	updated := existing
	req.Apply(&updated)
	if updated.SameContent(existing) {
		return nil, false, nil
	}
	changes := append(req.Changes(), models.Change{Field: "updated_at", Value: now()})
	return changes, true, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
