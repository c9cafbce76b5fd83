package metadata

import "fmt"

type Status string

const (
	StatusAvailable Status = "available"
	StatusAssigned  Status = "assigned"
	StatusInRepair  Status = "in_repair"
	StatusRetired   Status = "retired"
	StatusActive    Status = "active"
	StatusDisabled  Status = "disabled"
)

func NewStatus(kind ResourceKind, value string) (Status, error) {
	status := Status(value)
	if !status.validFor(kind) {
		return "", fmt.Errorf("invalid %s status: %s", kind, value)
	}
	return status, nil
}

func (s Status) validFor(kind ResourceKind) bool {
	switch kind.Policy() {
	case PolicyExclusive:
		switch s {
		case StatusAvailable, StatusAssigned, StatusInRepair, StatusRetired:
			return true
		}
	default:
		switch s {
		case StatusActive, StatusDisabled:
			return true
		}
	}
	return false
}

// Assignable reports whether a resource in this status may receive a new
// assignment. Exclusive resources must be available; stock and seat-limited
// resources only need to not be disabled.
func (s Status) Assignable(kind ResourceKind) bool {
	if kind.Policy() == PolicyExclusive {
		return s == StatusAvailable
	}
	return s != StatusDisabled
}

// DefaultStatus is the status a freshly imported or created resource starts in.
func (k ResourceKind) DefaultStatus() Status {
	if k.Policy() == PolicyExclusive {
		return StatusAvailable
	}
	return StatusActive
}

type AssignmentStatus string

const (
	AssignmentAssigned AssignmentStatus = "assigned"
	AssignmentReturned AssignmentStatus = "returned"
)
