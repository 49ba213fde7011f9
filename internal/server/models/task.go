package models

import (
	"strings"
	"time"

	"github.com/taskflow-app/taskflow/internal/common"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusDelayed    TaskStatus = "delayed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDelayed:
		return true
	}
	return false
}

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a to-do item owned by exactly one user. OwnerID never changes after
// creation.
type Task struct {
	ID          string     `json:"_id"`
	OwnerID     string     `json:"owner"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *Date      `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Delay pushes the due date, if any, one calendar day forward and marks the
// task delayed. Calling it again keeps moving the date.
func (t *Task) Delay(now time.Time) {
	if t.DueDate != nil {
		next := t.DueDate.AddDays(1)
		t.DueDate = &next
	}
	t.Status = StatusDelayed
	t.UpdatedAt = now
}

// Apply copies the fields present in p onto t.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Date
	}
	t.UpdatedAt = now
}

// TaskPatch is a partial update; nil fields and an unset DueDate are left
// untouched.
type TaskPatch struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *TaskStatus  `json:"status"`
	Priority    *Priority    `json:"priority"`
	DueDate     OptionalDate `json:"dueDate"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil && !p.DueDate.Set
}

// Validate rejects blank titles and unknown enum values. Title is trimmed in
// place.
func (p *TaskPatch) Validate() error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return common.NewPublicError(common.ErrValidation, "Title cannot be empty")
		}
		p.Title = &title
	}
	if p.Status != nil && !p.Status.Valid() {
		return common.NewPublicError(common.ErrValidation, "Invalid status")
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return common.NewPublicError(common.ErrValidation, "Invalid priority")
	}
	return nil
}
