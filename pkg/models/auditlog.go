package models

type AuditLog struct {
	ID           int    `json:"id" db:"id"`
	ResourceID   int    `json:"resource_id" db:"resource_id"`
	ResourceType string `json:"resource_type" db:"resource_type"`
	Action       string `json:"action" db:"action"`
	Actor        string `json:"actor" db:"actor"`
}
