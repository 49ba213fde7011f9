package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/server/models"
	"github.com/taskflow-app/taskflow/internal/server/repositories/repomanager"
)

const (
	userA = "user-a"
	userB = "user-b"
)

func newTaskService(t *testing.T) *TaskService {
	t.Helper()
	svc := NewTaskService(repomanager.NewMemoryRepositoryManager())

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick, seq int
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("task-%d", seq)
	}
	return svc
}

func mustDate(t *testing.T, s string) models.OptionalDate {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return models.OptionalDate{Set: true, Date: &d}
}

func TestCreate_Defaults(t *testing.T) {
	svc := newTaskService(t)

	task, err := svc.Create(context.Background(), userA, CreateTaskInput{Title: "  Essay  "})
	require.NoError(t, err)

	assert.Equal(t, "Essay", task.Title)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, userA, task.OwnerID)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTaskService(t)

	_, err := svc.Create(context.Background(), userA, CreateTaskInput{Title: "   "})
	assert.Equal(t, msgTitleRequired, publicMessage(t, err, common.ErrValidation))

	_, err = svc.Create(context.Background(), userA, CreateTaskInput{Title: "x", Priority: "urgent"})
	assert.Equal(t, msgInvalidPriority, publicMessage(t, err, common.ErrValidation))
}

func TestList_NewestFirst(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	for _, title := range []string{"T1", "T2", "T3"} {
		_, err := svc.Create(ctx, userA, CreateTaskInput{Title: title})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, userB, CreateTaskInput{Title: "B1"})
	require.NoError(t, err)

	list, err := svc.List(ctx, userA)
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, task := range list {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"T3", "T2", "T1"}, titles)
}

func TestOwnership_OtherUserSeesNotFound(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, userA, CreateTaskInput{Title: "private"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, userB, task.ID)
	assert.Equal(t, msgTaskNotFound, publicMessage(t, err, common.ErrNotFound))

	title := "hijacked"
	_, err = svc.Update(ctx, userB, task.ID, models.TaskPatch{Title: &title})
	assert.Equal(t, msgTaskNotFound, publicMessage(t, err, common.ErrNotFound))

	err = svc.Delete(ctx, userB, task.ID)
	assert.Equal(t, msgTaskNotFound, publicMessage(t, err, common.ErrNotFound))

	_, err = svc.Delay(ctx, userB, task.ID)
	assert.Equal(t, msgTaskNotFound, publicMessage(t, err, common.ErrNotFound))

	got, err := svc.Get(ctx, userA, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestDelay_AdvancesOneDayEachCall(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, userA, CreateTaskInput{Title: "Essay", DueDate: mustDate(t, "2024-03-01")})
	require.NoError(t, err)

	first, err := svc.Delay(ctx, userA, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", first.DueDate.String())
	assert.Equal(t, models.StatusDelayed, first.Status)

	second, err := svc.Delay(ctx, userA, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", second.DueDate.String())
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestDelay_WithoutDueDate(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, userA, CreateTaskInput{Title: "Someday"})
	require.NoError(t, err)

	got, err := svc.Delay(ctx, userA, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, models.StatusDelayed, got.Status)
}

func TestUpdate_Partial(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, userA, CreateTaskInput{
		Title: "Essay", Description: "2000 words", Priority: models.PriorityHigh, DueDate: mustDate(t, "2025-05-01"),
	})
	require.NoError(t, err)

	var patch models.TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"in_progress","dueDate":null}`), &patch))

	got, err := svc.Update(ctx, userA, task.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Essay", got.Title)
	assert.Equal(t, "2000 words", got.Description)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Nil(t, got.DueDate)
	assert.True(t, got.UpdatedAt.After(task.UpdatedAt))
}

func TestUpdate_RejectsBadValues(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, userA, CreateTaskInput{Title: "Essay"})
	require.NoError(t, err)

	for _, body := range []string{`{"status":"archived"}`, `{"priority":"urgent"}`, `{"title":"  "}`} {
		var patch models.TaskPatch
		require.NoError(t, json.Unmarshal([]byte(body), &patch))
		_, err := svc.Update(ctx, userA, task.ID, patch)
		assert.ErrorIs(t, err, common.ErrValidation, body)
	}

	got, err := svc.Get(ctx, userA, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Essay", got.Title)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestDelete(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, userA, CreateTaskInput{Title: "Essay"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userA, task.ID))
	_, err = svc.Get(ctx, userA, task.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, userA, task.ID), common.ErrNotFound)
}
