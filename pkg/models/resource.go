package models

import (
	"strings"
	"time"

	"assetdesk/pkg/metadata"
)

// Resource is the kind-tagged variant covering assets, accessories, SIM
// cards and software licenses. Kind-specific fields stay nil/zero for the
// kinds they do not apply to.
type Resource struct {
	ID          int                   `json:"id" db:"id"`
	Kind        metadata.ResourceKind `json:"kind" db:"kind"`
	NaturalKey  string                `json:"natural_key" db:"natural_key"`
	Name        string                `json:"name" db:"name"`
	Description string                `json:"description" db:"description"`
	Status      metadata.Status       `json:"status" db:"status"`
	Serial      *string               `json:"serial,omitempty" db:"serial"`
	Condition   *string               `json:"condition,omitempty" db:"condition"`

	// Accessory stock and license seat cap.
	Quantity int `json:"quantity,omitempty" db:"quantity"`
	Seats    int `json:"seats,omitempty" db:"seats"`

	// Asset master data.
	CategoryID *int `json:"category_id,omitempty" db:"category_id"`
	ItemID     *int `json:"item_id,omitempty" db:"item_id"`

	// SIM master data.
	ProviderID *int `json:"provider_id,omitempty" db:"provider_id"`
	SimTypeID  *int `json:"sim_type_id,omitempty" db:"sim_type_id"`
	SimPlanID  *int `json:"sim_plan_id,omitempty" db:"sim_plan_id"`

	ProjectID *int   `json:"project_id,omitempty" db:"project_id"`
	Notes     string `json:"notes,omitempty" db:"notes"`

	CreatedBy string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedBy string    `json:"updated_by,omitempty" db:"updated_by"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AppendNote concatenates a labelled note onto the free-text field without
// overwriting what is already there. The field is a lightweight audit
// narrative, never a single mutable value.
func AppendNote(existing, label, note string) string {
	if strings.TrimSpace(note) == "" {
		return existing
	}
	entry := label + ": " + strings.TrimSpace(note)
	if existing == "" {
		return entry
	}
	return existing + "\n" + entry
}

func (r *Resource) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: r.Kind.String(),
	}
}
