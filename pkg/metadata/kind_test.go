package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResourceKind(t *testing.T) {
	kind, err := NewResourceKind("sim_card")
	assert.NoError(t, err)
	assert.Equal(t, KindSimCard, kind)

	_, err = NewResourceKind("vehicle")
	assert.Error(t, err)
}

func TestKindPolicies(t *testing.T) {
	assert.Equal(t, PolicyExclusive, KindAsset.Policy())
	assert.Equal(t, PolicyExclusive, KindSimCard.Policy())
	assert.Equal(t, PolicyQuantity, KindAccessory.Policy())
	assert.Equal(t, PolicySeatLimited, KindSoftwareLicense.Policy())
}

func TestStatusAssignable(t *testing.T) {
	assert.True(t, StatusAvailable.Assignable(KindAsset))
	assert.False(t, StatusAssigned.Assignable(KindAsset))
	assert.False(t, StatusInRepair.Assignable(KindSimCard))

	assert.True(t, StatusActive.Assignable(KindAccessory))
	assert.False(t, StatusDisabled.Assignable(KindAccessory))
	assert.True(t, StatusActive.Assignable(KindSoftwareLicense))
	assert.False(t, StatusDisabled.Assignable(KindSoftwareLicense))
}

func TestNewStatusValidatesPerKind(t *testing.T) {
	status, err := NewStatus(KindAsset, "in_repair")
	assert.NoError(t, err)
	assert.Equal(t, StatusInRepair, status)

	_, err = NewStatus(KindAccessory, "in_repair")
	assert.Error(t, err)

	_, err = NewStatus(KindSoftwareLicense, "available")
	assert.Error(t, err)
}
