package assignments

import (
	"testing"

	"assetdesk/internal/catalog"
	"assetdesk/internal/masterdata"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
)

type fixture struct {
	service   *Service
	resources *catalog.MemoryStore
	master    *masterdata.MemoryStore
	ledger    *MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	resources := catalog.NewMemoryStore()
	master := masterdata.NewMemoryStore()
	ledger := NewMemoryStore()
	runTx := func(fn func(tx *goqu.TxDatabase) error) error { return fn(nil) }

	master.Employees = []models.Employee{
		{ID: 1, Number: "EMP-1", Name: "Asha Nair", Status: models.EmployeeActive},
		{ID: 2, Number: "EMP-2", Name: "Piotr Kowalski", Status: models.EmployeeActive},
		{ID: 3, Number: "EMP-3", Name: "Dana Cole", Status: models.EmployeeInactive},
	}

	return &fixture{
		service:   NewService(resources, master, ledger, runTx, nil, nil),
		resources: resources,
		master:    master,
		ledger:    ledger,
	}
}

func (f *fixture) seedResource(t *testing.T, kind metadata.ResourceKind, key string, mutate func(*models.Resource)) *models.Resource {
	t.Helper()
	res := &models.Resource{
		Kind:       kind,
		NaturalKey: key,
		Name:       key,
		Status:     kind.DefaultStatus(),
	}
	if mutate != nil {
		mutate(res)
	}
	res, err := f.resources.Upsert(nil, res)
	assert.NoError(t, err)
	return res
}

func intPtr(v int) *int { return &v }

func TestAssignExclusiveCreatesRowAndFlipsStatus(t *testing.T) {
	f := newFixture(t)
	asset := f.seedResource(t, metadata.KindAsset, "A-100", nil)

	row, err := f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 1}, "jdoe")
	assert.NoError(t, err)
	assert.Equal(t, metadata.AssignmentAssigned, row.Status)
	assert.Equal(t, 1, row.Quantity)
	assert.Equal(t, "jdoe", row.CreatedBy)

	stored, err := f.resources.FindByID(nil, metadata.KindAsset, asset.ID)
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusAssigned, stored.Status)
}

func TestAssignExclusiveSecondCallerConflicts(t *testing.T) {
	f := newFixture(t)
	asset := f.seedResource(t, metadata.KindAsset, "A-100", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 1}, "")
	assert.NoError(t, err)

	// The resource status reads assigned at this point, but the ledger
	// row is what the second caller trips over.
	_, err = f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 2}, "")
	assert.True(t, custom_error.IsConflict(err))
	assert.False(t, custom_error.IsInvalidState(err))

	// At most one active row per exclusive resource, ever.
	active := 0
	for _, row := range f.ledger.All() {
		if row.Active() {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestAssignAccessoryCollapsesIntoOneRow(t *testing.T) {
	f := newFixture(t)
	accessory := f.seedResource(t, metadata.KindAccessory, "USB-C Dock", func(r *models.Resource) {
		r.Quantity = 50
	})

	for _, quantity := range []int{2, 3, 5} {
		_, err := f.service.Assign(AssignRequest{
			Kind:       metadata.KindAccessory,
			ResourceID: accessory.ID,
			EmployeeID: 1,
			Quantity:   intPtr(quantity),
		}, "")
		assert.NoError(t, err)
	}

	rows := f.ledger.All()
	assert.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].Quantity)
	assert.Equal(t, metadata.AssignmentAssigned, rows[0].Status)
}

func TestAssignAccessoryTopUpKeepsCallerNote(t *testing.T) {
	f := newFixture(t)
	accessory := f.seedResource(t, metadata.KindAccessory, "Webcam", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(2), Notes: "onboarding kit"}, "")
	assert.NoError(t, err)
	_, err = f.service.Assign(AssignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(3), Notes: "home office"}, "")
	assert.NoError(t, err)

	rows := f.ledger.All()
	assert.Len(t, rows, 1)
	assert.Contains(t, rows[0].Notes, "onboarding kit")
	assert.Contains(t, rows[0].Notes, "Added: 3 unit(s) - home office")
}

func TestAssignAccessoryRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	accessory := f.seedResource(t, metadata.KindAccessory, "Mouse", nil)

	_, err := f.service.Assign(AssignRequest{
		Kind:       metadata.KindAccessory,
		ResourceID: accessory.ID,
		EmployeeID: 1,
		Quantity:   intPtr(0),
	}, "")
	assert.True(t, custom_error.IsValidation(err))

	_, err = f.service.Assign(AssignRequest{
		Kind:       metadata.KindAccessory,
		ResourceID: accessory.ID,
		EmployeeID: 1,
		Quantity:   intPtr(-2),
	}, "")
	assert.True(t, custom_error.IsValidation(err))
}

func TestAssignSeatLimitedEnforcesCap(t *testing.T) {
	f := newFixture(t)
	license := f.seedResource(t, metadata.KindSoftwareLicense, "LIC-ADOBE-01", func(r *models.Resource) {
		r.Seats = 2
	})

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindSoftwareLicense, ResourceID: license.ID, EmployeeID: 1}, "")
	assert.NoError(t, err)
	_, err = f.service.Assign(AssignRequest{Kind: metadata.KindSoftwareLicense, ResourceID: license.ID, EmployeeID: 2}, "")
	assert.NoError(t, err)

	f.master.Employees = append(f.master.Employees, models.Employee{ID: 4, Number: "EMP-4", Status: models.EmployeeActive})
	_, err = f.service.Assign(AssignRequest{Kind: metadata.KindSoftwareLicense, ResourceID: license.ID, EmployeeID: 4}, "")
	assert.True(t, custom_error.IsConflict(err))
}

func TestAssignSeatLimitedZeroSeatsMeansNoCap(t *testing.T) {
	f := newFixture(t)
	license := f.seedResource(t, metadata.KindSoftwareLicense, "LIC-SITE-01", nil)

	for _, employeeID := range []int{1, 2} {
		_, err := f.service.Assign(AssignRequest{Kind: metadata.KindSoftwareLicense, ResourceID: license.ID, EmployeeID: employeeID}, "")
		assert.NoError(t, err)
	}

	f.master.Employees = append(f.master.Employees, models.Employee{ID: 4, Number: "EMP-4", Status: models.EmployeeActive})
	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindSoftwareLicense, ResourceID: license.ID, EmployeeID: 4}, "")
	assert.NoError(t, err)
}

func TestAssignSeatLimitedRejectsDuplicateHolder(t *testing.T) {
	f := newFixture(t)
	license := f.seedResource(t, metadata.KindSoftwareLicense, "LIC-IDE-01", func(r *models.Resource) {
		r.Seats = 5
	})

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindSoftwareLicense, ResourceID: license.ID, EmployeeID: 1}, "")
	assert.NoError(t, err)

	_, err = f.service.Assign(AssignRequest{Kind: metadata.KindSoftwareLicense, ResourceID: license.ID, EmployeeID: 1}, "")
	assert.True(t, custom_error.IsConflict(err))
}

func TestAssignMissingResourceOrEmployee(t *testing.T) {
	f := newFixture(t)
	asset := f.seedResource(t, metadata.KindAsset, "A-1", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: 999, EmployeeID: 1}, "")
	assert.True(t, custom_error.IsNotFound(err))

	_, err = f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 999}, "")
	assert.True(t, custom_error.IsNotFound(err))
}

func TestAssignInactiveEmployeeRejected(t *testing.T) {
	f := newFixture(t)
	asset := f.seedResource(t, metadata.KindAsset, "A-1", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 3}, "")
	assert.True(t, custom_error.IsInvalidState(err))
}

func TestAssignUnassignableStatusRejected(t *testing.T) {
	f := newFixture(t)
	asset := f.seedResource(t, metadata.KindAsset, "A-1", func(r *models.Resource) {
		r.Status = metadata.StatusInRepair
	})

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 1}, "")
	assert.True(t, custom_error.IsInvalidState(err))

	disabled := f.seedResource(t, metadata.KindAccessory, "Old Dock", func(r *models.Resource) {
		r.Status = metadata.StatusDisabled
	})
	_, err = f.service.Assign(AssignRequest{Kind: metadata.KindAccessory, ResourceID: disabled.ID, EmployeeID: 1, Quantity: intPtr(1)}, "")
	assert.True(t, custom_error.IsInvalidState(err))
}

func TestUnassignFullReturn(t *testing.T) {
	f := newFixture(t)
	asset := f.seedResource(t, metadata.KindAsset, "A-1", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 1}, "jdoe")
	assert.NoError(t, err)

	err = f.service.Unassign(UnassignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 1, Notes: "left company"}, "jdoe")
	assert.NoError(t, err)

	rows := f.ledger.All()
	assert.Len(t, rows, 1)
	assert.Equal(t, metadata.AssignmentReturned, rows[0].Status)
	assert.NotNil(t, rows[0].ReturnedAt)
	assert.Contains(t, rows[0].Notes, "Returned: left company")

	stored, err := f.resources.FindByID(nil, metadata.KindAsset, asset.ID)
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusAvailable, stored.Status)
}

func TestUnassignPartialReturnDecrementsInPlace(t *testing.T) {
	f := newFixture(t)
	accessory := f.seedResource(t, metadata.KindAccessory, "Keyboard", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(5)}, "")
	assert.NoError(t, err)

	err = f.service.Unassign(UnassignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(2)}, "")
	assert.NoError(t, err)

	rows := f.ledger.All()
	assert.Len(t, rows, 1)
	assert.Equal(t, metadata.AssignmentAssigned, rows[0].Status)
	assert.Equal(t, 3, rows[0].Quantity)
	assert.Nil(t, rows[0].ReturnedAt)
	assert.Contains(t, rows[0].Notes, "Partial return: 2 unit(s)")
}

func TestUnassignExactQuantityIsFullReturn(t *testing.T) {
	f := newFixture(t)
	accessory := f.seedResource(t, metadata.KindAccessory, "Headset", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(4)}, "")
	assert.NoError(t, err)

	err = f.service.Unassign(UnassignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(4)}, "")
	assert.NoError(t, err)

	rows := f.ledger.All()
	assert.Equal(t, metadata.AssignmentReturned, rows[0].Status)
	assert.NotNil(t, rows[0].ReturnedAt)
}

func TestUnassignOverReturnFails(t *testing.T) {
	f := newFixture(t)
	accessory := f.seedResource(t, metadata.KindAccessory, "Cable", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(3)}, "")
	assert.NoError(t, err)

	err = f.service.Unassign(UnassignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(4)}, "")
	assert.True(t, custom_error.IsValidation(err))

	// Row untouched by the failed call.
	rows := f.ledger.All()
	assert.Equal(t, 3, rows[0].Quantity)
	assert.Equal(t, metadata.AssignmentAssigned, rows[0].Status)
}

func TestUnassignWithoutActiveRowFails(t *testing.T) {
	f := newFixture(t)
	asset := f.seedResource(t, metadata.KindAsset, "A-1", nil)

	err := f.service.Unassign(UnassignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 1}, "")
	assert.True(t, custom_error.IsNotFound(err))
}

func TestNotesAreAppendedNeverOverwritten(t *testing.T) {
	f := newFixture(t)
	accessory := f.seedResource(t, metadata.KindAccessory, "Adapter", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(5), Notes: "initial batch"}, "")
	assert.NoError(t, err)

	err = f.service.Unassign(UnassignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(1), Notes: "damaged"}, "")
	assert.NoError(t, err)
	err = f.service.Unassign(UnassignRequest{Kind: metadata.KindAccessory, ResourceID: accessory.ID, EmployeeID: 1, Quantity: intPtr(4), Notes: "rest back"}, "")
	assert.NoError(t, err)

	rows := f.ledger.All()
	notes := rows[0].Notes
	assert.Contains(t, notes, "initial batch")
	assert.Contains(t, notes, "Partial return: 1 unit(s) - damaged")
	assert.Contains(t, notes, "Returned: rest back")
}

func TestReassignMovesExclusiveResource(t *testing.T) {
	f := newFixture(t)
	sim := f.seedResource(t, metadata.KindSimCard, "SIM-555", nil)

	_, err := f.service.Assign(AssignRequest{Kind: metadata.KindSimCard, ResourceID: sim.ID, EmployeeID: 1}, "")
	assert.NoError(t, err)

	row, err := f.service.Reassign(metadata.KindSimCard, sim.ID, 1, 2, "handover", "admin")
	assert.NoError(t, err)
	assert.Equal(t, 2, row.EmployeeID)
	assert.Equal(t, metadata.AssignmentAssigned, row.Status)

	rows := f.ledger.All()
	assert.Len(t, rows, 2)
	assert.Equal(t, metadata.AssignmentReturned, rows[0].Status)
	assert.Contains(t, rows[0].Notes, "reassigned to EMP-2")

	stored, err := f.resources.FindByID(nil, metadata.KindSimCard, sim.ID)
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusAssigned, stored.Status)
}

func TestReassignRejectsNonExclusiveKinds(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Reassign(metadata.KindAccessory, 1, 1, 2, "", "")
	assert.True(t, custom_error.IsValidation(err))
}

// Exclusivity holds across an arbitrary assign/unassign sequence.
func TestExclusivityInvariantAcrossSequence(t *testing.T) {
	f := newFixture(t)
	asset := f.seedResource(t, metadata.KindAsset, "A-9", nil)

	for i := 0; i < 3; i++ {
		_, err := f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 1}, "")
		assert.NoError(t, err)

		_, err = f.service.Assign(AssignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 2}, "")
		assert.True(t, custom_error.IsConflict(err))

		err = f.service.Unassign(UnassignRequest{Kind: metadata.KindAsset, ResourceID: asset.ID, EmployeeID: 1}, "")
		assert.NoError(t, err)
	}

	active := 0
	for _, row := range f.ledger.All() {
		if row.Active() {
			active++
		}
	}
	assert.Equal(t, 0, active)
	assert.Len(t, f.ledger.All(), 3)
}
