package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/server/models"
)

func TestForOwner_ScopesEveryCall(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	alice := ForOwner(repo, ownerA)
	bob := ForOwner(repo, ownerB)
	assert.Equal(t, ownerA, alice.OwnerID())

	created, err := alice.Create(ctx, &models.Task{ID: "t1", OwnerID: ownerB, Title: "mine"})
	require.NoError(t, err)
	assert.Equal(t, ownerA, created.OwnerID, "owner comes from the scope, not the input")

	_, err = bob.Get(ctx, "t1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = bob.Update(ctx, "t1", models.TaskPatch{}, time.Now())
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = bob.Delay(ctx, "t1", time.Now())
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, bob.Delete(ctx, "t1"), common.ErrNotFound)

	bobs, err := bob.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	mine, err := alice.List(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	delayed, err := alice.Delay(ctx, "t1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelayed, delayed.Status)

	require.NoError(t, alice.Delete(ctx, "t1"))
}
