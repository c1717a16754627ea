package model

import "time"

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const (
	DefaultCategory = "general"
	DefaultPriority = PriorityMedium
)

// Task is a single to-do item. ID is assigned at creation and never changes.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Priority  Priority  `json:"priority"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	Rotation  int       `json:"rotation"`
}

// TaskPatch carries a partial update. Nil fields are left untouched.
// It has no ID field; identity is not patchable.
type TaskPatch struct {
	Text      *string    `json:"text,omitempty"`
	Category  *string    `json:"category,omitempty"`
	Priority  *Priority  `json:"priority,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Rotation  *int       `json:"rotation,omitempty"`
}

// Apply returns t with every non-nil patch field merged in.
func (p TaskPatch) Apply(t Task) Task {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.CreatedAt != nil {
		t.CreatedAt = *p.CreatedAt
	}
	if p.Rotation != nil {
		t.Rotation = *p.Rotation
	}
	return t
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Text == nil && p.Category == nil && p.Priority == nil &&
		p.Completed == nil && p.CreatedAt == nil && p.Rotation == nil
}

// FullPatch returns a patch that overwrites every mutable field with t's values.
func FullPatch(t Task) TaskPatch {
	return TaskPatch{
		Text:      &t.Text,
		Category:  &t.Category,
		Priority:  &t.Priority,
		Completed: &t.Completed,
		CreatedAt: &t.CreatedAt,
		Rotation:  &t.Rotation,
	}
}
