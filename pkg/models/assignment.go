package models

import (
	"time"

	"assetdesk/pkg/metadata"
)

// Assignment is the custody record linking one employee to one resource.
// Rows transition from assigned to returned and are never deleted; they are
// the audit trail of resource custody over time.
type Assignment struct {
	ID           int                       `json:"id" db:"id"`
	ResourceID   int                       `json:"resource_id" db:"resource_id"`
	ResourceKind metadata.ResourceKind     `json:"resource_kind" db:"resource_kind"`
	EmployeeID   int                       `json:"employee_id" db:"employee_id"`
	Status       metadata.AssignmentStatus `json:"status" db:"status"`
	Quantity     int                       `json:"quantity" db:"quantity"`
	AssignedAt   time.Time                 `json:"assigned_at" db:"assigned_at"`
	ReturnedAt   *time.Time                `json:"returned_at,omitempty" db:"returned_at"`
	Notes        string                    `json:"notes,omitempty" db:"notes"`

	CreatedBy string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedBy string    `json:"updated_by,omitempty" db:"updated_by"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (a *Assignment) Active() bool {
	return a.Status == metadata.AssignmentAssigned
}

// AppendNote adds a labelled line to the assignment's note narrative.
func (a *Assignment) AppendNote(label, note string) {
	a.Notes = AppendNote(a.Notes, label, note)
}

func (a *Assignment) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "assignment",
	}
}
