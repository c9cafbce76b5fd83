package metadata

import "fmt"

type ResourceKind string

const (
	KindAsset           ResourceKind = "asset"
	KindAccessory       ResourceKind = "accessory"
	KindSimCard         ResourceKind = "sim_card"
	KindSoftwareLicense ResourceKind = "software_license"
)

// AssignmentPolicy decides how concurrent custody of one resource is bounded.
type AssignmentPolicy string

const (
	// PolicyExclusive allows at most one active assignment per resource.
	PolicyExclusive AssignmentPolicy = "exclusive"
	// PolicyQuantity tracks a stock of interchangeable units consumed by count.
	PolicyQuantity AssignmentPolicy = "quantity"
	// PolicySeatLimited caps the number of concurrently active assignments.
	PolicySeatLimited AssignmentPolicy = "seat_limited"
)

func NewResourceKind(value string) (ResourceKind, error) {
	kind := ResourceKind(value)
	if !kind.isValid() {
		return "", fmt.Errorf("invalid resource kind: %s", value)
	}
	return kind, nil
}

func (k ResourceKind) isValid() bool {
	switch k {
	case KindAsset, KindAccessory, KindSimCard, KindSoftwareLicense:
		return true
	default:
		return false
	}
}

func (k ResourceKind) Policy() AssignmentPolicy {
	switch k {
	case KindAccessory:
		return PolicyQuantity
	case KindSoftwareLicense:
		return PolicySeatLimited
	default:
		return PolicyExclusive
	}
}

func (k ResourceKind) String() string {
	return string(k)
}

// Label is the display name used in row-error messages.
func (k ResourceKind) Label() string {
	switch k {
	case KindAsset:
		return "Asset"
	case KindAccessory:
		return "Accessory"
	case KindSimCard:
		return "SIM Card"
	case KindSoftwareLicense:
		return "Software License"
	default:
		return string(k)
	}
}
