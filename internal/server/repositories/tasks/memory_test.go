package tasks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/server/models"
)

const ownerB = "33333333-3333-4333-8333-333333333333"

func seed(t *testing.T, r *MemoryRepository, owner string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := r.Create(context.Background(), &models.Task{
			ID: id, OwnerID: owner, Title: "task " + id,
			Status: models.StatusPending, Priority: models.PriorityMedium,
		})
		require.NoError(t, err)
	}
}

func TestMemory_ListNewestFirstPerOwner(t *testing.T) {
	r := NewMemoryRepository()
	seed(t, r, ownerA, "t1")
	seed(t, r, ownerB, "b1")
	seed(t, r, ownerA, "t2", "t3")

	got, err := r.ListByOwner(context.Background(), ownerA)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids)

	none, err := r.ListByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemory_OtherOwnerLooksMissing(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	seed(t, r, ownerA, "t1")

	_, err := r.Get(ctx, ownerB, "t1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = r.Update(ctx, ownerB, "t1", models.TaskPatch{}, time.Now())
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = r.Delay(ctx, ownerB, "t1", time.Now())
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, ownerB, "t1"), common.ErrNotFound)

	got, err := r.Get(ctx, ownerA, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	seed(t, r, ownerA, "t1", "t2")

	require.NoError(t, r.Delete(ctx, ownerA, "t1"))
	_, err := r.Get(ctx, ownerA, "t1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, ownerA, "t1"), common.ErrNotFound)

	list, err := r.ListByOwner(ctx, ownerA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t2", list[0].ID)
}

func TestMemory_UpdateAndCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	seed(t, r, ownerA, "t1")

	title := "renamed"
	due := models.Date{Year: 2025, Month: time.May, Day: 5}
	got, err := r.Update(ctx, ownerA, "t1", models.TaskPatch{Title: &title, DueDate: models.OptionalDate{Set: true, Date: &due}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	got.DueDate.Day = 20
	again, err := r.Get(ctx, ownerA, "t1")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-05", again.DueDate.String())
}

func TestMemory_ConcurrentDelaysAllApply(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	due := models.Date{Year: 2024, Month: time.March, Day: 1}
	_, err := r.Create(ctx, &models.Task{ID: "t1", OwnerID: ownerA, Title: "x", DueDate: &due})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Delay(ctx, ownerA, "t1", time.Now())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := r.Get(ctx, ownerA, "t1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", got.DueDate.String())
	assert.Equal(t, models.StatusDelayed, got.Status)
}
