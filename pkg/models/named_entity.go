package models

// NamedEntity is the shared shape of lookup master data: item categories,
// items, SIM providers, SIM types and SIM card plans. ParentID is only set
// for entities scoped under another one (items under a category).
type NamedEntity struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	ParentID *int   `json:"parent_id,omitempty" db:"parent_id"`
}
