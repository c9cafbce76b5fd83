package models

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

type Employee struct {
	ID     int            `json:"id" db:"id"`
	Number string         `json:"number" db:"number"`
	Name   string         `json:"name" db:"name"`
	Email  string         `json:"email,omitempty" db:"email"`
	Status EmployeeStatus `json:"status" db:"status"`
}

func (e *Employee) IsActive() bool {
	return e.Status == EmployeeActive
}
