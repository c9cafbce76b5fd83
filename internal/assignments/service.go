package assignments

import (
	"fmt"
	"time"

	"assetdesk/internal/catalog"
	"assetdesk/internal/masterdata"
	"assetdesk/pkg/auditlog"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// Store owns persistence of custody records. Rows are inserted and mutated,
// never deleted; they are the audit trail of who held what and when.
type Store interface {
	// ActiveByResource returns the single assigned row for a resource, or
	// nil. Only meaningful for exclusive kinds, where at most one exists.
	ActiveByResource(tx *goqu.TxDatabase, kind metadata.ResourceKind, resourceID int) (*models.Assignment, error)
	ActiveByResourceAndEmployee(tx *goqu.TxDatabase, kind metadata.ResourceKind, resourceID, employeeID int) (*models.Assignment, error)
	CountActiveByResource(tx *goqu.TxDatabase, kind metadata.ResourceKind, resourceID int) (int, error)
	Insert(tx *goqu.TxDatabase, assignment *models.Assignment) (*models.Assignment, error)
	Update(tx *goqu.TxDatabase, assignment *models.Assignment) error
	ListByEmployee(tx *goqu.TxDatabase, employeeID int) ([]models.Assignment, error)
}

// TxRunner wraps a unit of work in a transaction. Production wiring uses
// repository.WithTransaction; tests run the closure with a nil tx.
type TxRunner func(fn func(tx *goqu.TxDatabase) error) error

type Service struct {
	resources catalog.Store
	master    masterdata.Store
	ledger    Store
	runTx     TxRunner
	audit     *auditlog.Auditlog
	log       *zap.Logger
}

func NewService(resources catalog.Store, master masterdata.Store, ledger Store, runTx TxRunner, audit *auditlog.Auditlog, log *zap.Logger) *Service {
	return &Service{
		resources: resources,
		master:    master,
		ledger:    ledger,
		runTx:     runTx,
		audit:     audit,
		log:       log,
	}
}

type AssignRequest struct {
	Kind       metadata.ResourceKind
	ResourceID int
	EmployeeID int
	Quantity   *int
	Notes      string
}

type UnassignRequest struct {
	Kind       metadata.ResourceKind
	ResourceID int
	EmployeeID int
	Quantity   *int
	Notes      string
}

// Assign creates (or, for accessories, tops up) the custody record for one
// employee and one resource. The call is all-or-nothing: the first
// applicable error surfaces immediately and nothing is mutated.
func (s *Service) Assign(req AssignRequest, actor string) (*models.Assignment, error) {
	quantity := 1
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, custom_error.NewValidation("quantity must be positive, got %d", *req.Quantity)
		}
		if req.Kind.Policy() != metadata.PolicyQuantity && *req.Quantity != 1 {
			return nil, custom_error.NewValidation("quantity applies to accessories only")
		}
		quantity = *req.Quantity
	}

	var result *models.Assignment
	err := s.runTx(func(tx *goqu.TxDatabase) error {
		res, emp, err := s.loadResourceAndEmployee(tx, req.Kind, req.ResourceID, req.EmployeeID)
		if err != nil {
			return err
		}
		switch req.Kind.Policy() {
		case metadata.PolicyExclusive:
			result, err = s.assignExclusive(tx, res, emp, req.Notes, actor)
		case metadata.PolicyQuantity:
			result, err = s.assignQuantity(tx, res, emp, quantity, req.Notes, actor)
		case metadata.PolicySeatLimited:
			result, err = s.assignSeat(tx, res, emp, req.Notes, actor)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		go s.audit.Log("assign", actor, map[string]interface{}{
			"resource_kind": req.Kind.String(),
			"resource_id":   req.ResourceID,
			"employee_id":   req.EmployeeID,
			"quantity":      result.Quantity,
		}, result)
	}

	return result, nil
}

func (s *Service) assignExclusive(tx *goqu.TxDatabase, res *models.Resource, emp *models.Employee, notes, actor string) (*models.Assignment, error) {
	// The ledger, not the cached resource status, decides whether the
	// resource is taken. A second assign is a conflict, not an
	// unprocessable state.
	active, err := s.ledger.ActiveByResource(tx, res.Kind, res.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, custom_error.NewConflict("%s %q is already assigned", res.Kind.Label(), res.NaturalKey)
	}
	if err := assignableStatus(res); err != nil {
		return nil, err
	}

	row, err := s.ledger.Insert(tx, newAssignment(res, emp, 1, notes, actor))
	if err != nil {
		return nil, err
	}
	if err := s.resources.UpdateStatus(tx, res.ID, metadata.StatusAssigned); err != nil {
		return nil, err
	}

	return row, nil
}

func (s *Service) assignQuantity(tx *goqu.TxDatabase, res *models.Resource, emp *models.Employee, quantity int, notes, actor string) (*models.Assignment, error) {
	if err := assignableStatus(res); err != nil {
		return nil, err
	}

	existing, err := s.ledger.ActiveByResourceAndEmployee(tx, res.Kind, res.ID, emp.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Repeated accessory assignments collapse into one active row.
		existing.Quantity += quantity
		message := fmt.Sprintf("%d unit(s)", quantity)
		if notes != "" {
			message += " - " + notes
		}
		existing.AppendNote("Added", message)
		existing.UpdatedBy = actor
		existing.UpdatedAt = time.Now()
		if err := s.ledger.Update(tx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	return s.ledger.Insert(tx, newAssignment(res, emp, quantity, notes, actor))
}

func (s *Service) assignSeat(tx *goqu.TxDatabase, res *models.Resource, emp *models.Employee, notes, actor string) (*models.Assignment, error) {
	if err := assignableStatus(res); err != nil {
		return nil, err
	}

	existing, err := s.ledger.ActiveByResourceAndEmployee(tx, res.Kind, res.ID, emp.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, custom_error.NewConflict("employee %q already holds a seat on %s %q", emp.Number, res.Kind.Label(), res.NaturalKey)
	}

	count, err := s.ledger.CountActiveByResource(tx, res.Kind, res.ID)
	if err != nil {
		return nil, err
	}
	// A zero seat count means the license has no cap configured; only a
	// positive cap is enforced.
	if res.Seats > 0 && count >= res.Seats {
		return nil, custom_error.NewConflict("%s %q has no free seats (%d of %d in use)", res.Kind.Label(), res.NaturalKey, count, res.Seats)
	}

	return s.ledger.Insert(tx, newAssignment(res, emp, 1, notes, actor))
}

// assignableStatus rejects resources parked in a state that forbids new
// custody. The assigned status is not checked here: it is a cache of the
// ledger, and the ledger's active row is what makes a second assign a
// conflict.
func assignableStatus(res *models.Resource) error {
	var blocked bool
	switch res.Kind.Policy() {
	case metadata.PolicyExclusive:
		blocked = res.Status == metadata.StatusInRepair || res.Status == metadata.StatusRetired
	default:
		blocked = res.Status == metadata.StatusDisabled
	}
	if blocked {
		return custom_error.NewInvalidState("%s %q is not assignable in status %s", res.Kind.Label(), res.NaturalKey, res.Status)
	}
	return nil
}

// Unassign returns custody, either in full (row transitions to returned) or
// partially for accessories (quantity decremented in place).
func (s *Service) Unassign(req UnassignRequest, actor string) error {
	if req.Quantity != nil && *req.Quantity <= 0 {
		return custom_error.NewValidation("quantity must be positive, got %d", *req.Quantity)
	}

	var returned *models.Assignment
	err := s.runTx(func(tx *goqu.TxDatabase) error {
		res, err := s.resources.FindByID(tx, req.Kind, req.ResourceID)
		if err != nil {
			return err
		}
		if res == nil {
			return custom_error.NewNotFound(req.Kind.Label(), fmt.Sprintf("id %d", req.ResourceID))
		}

		row, err := s.activeRow(tx, req, res)
		if err != nil {
			return err
		}

		if req.Quantity != nil {
			if *req.Quantity > row.Quantity {
				return custom_error.NewValidation("return quantity %d exceeds held quantity %d", *req.Quantity, row.Quantity)
			}
			if *req.Quantity < row.Quantity {
				return s.partialReturn(tx, row, *req.Quantity, req.Notes, actor)
			}
		}

		if err := s.fullReturn(tx, row, req.Notes, actor); err != nil {
			return err
		}
		if req.Kind.Policy() == metadata.PolicyExclusive {
			if err := s.resources.UpdateStatus(tx, res.ID, metadata.StatusAvailable); err != nil {
				return err
			}
		}
		returned = row
		return nil
	})
	if err != nil {
		return err
	}

	if returned != nil && s.audit != nil {
		go s.audit.Log("unassign", actor, map[string]interface{}{
			"resource_kind": req.Kind.String(),
			"resource_id":   req.ResourceID,
			"employee_id":   returned.EmployeeID,
		}, returned)
	}

	return nil
}

// Reassign moves an exclusive resource from one employee to another in a
// single transaction: full return of the current custody row, then a fresh
// row for the new holder. The resource never passes through available.
func (s *Service) Reassign(kind metadata.ResourceKind, resourceID, fromEmployeeID, toEmployeeID int, notes, actor string) (*models.Assignment, error) {
	if kind.Policy() != metadata.PolicyExclusive {
		return nil, custom_error.NewValidation("reassignment applies to exclusive resources only")
	}

	var result *models.Assignment
	err := s.runTx(func(tx *goqu.TxDatabase) error {
		res, emp, err := s.loadResourceAndEmployee(tx, kind, resourceID, toEmployeeID)
		if err != nil {
			return err
		}

		row, err := s.ledger.ActiveByResource(tx, kind, res.ID)
		if err != nil {
			return err
		}
		if row == nil {
			return custom_error.NewNotFound("active assignment", fmt.Sprintf("%s id %d", kind, resourceID))
		}
		if fromEmployeeID != 0 && row.EmployeeID != fromEmployeeID {
			return custom_error.NewConflict("%s %q is held by a different employee", kind.Label(), res.NaturalKey)
		}
		if row.EmployeeID == toEmployeeID {
			return custom_error.NewConflict("%s %q is already assigned to employee %q", kind.Label(), res.NaturalKey, emp.Number)
		}

		if err := s.fullReturn(tx, row, fmt.Sprintf("reassigned to %s", emp.Number), actor); err != nil {
			return err
		}

		result, err = s.ledger.Insert(tx, newAssignment(res, emp, 1, notes, actor))
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		go s.audit.Log("reassign", actor, map[string]interface{}{
			"resource_kind": kind.String(),
			"resource_id":   resourceID,
			"employee_id":   toEmployeeID,
		}, result)
	}

	return result, nil
}

func (s *Service) ListByEmployee(employeeID int) ([]models.Assignment, error) {
	var rows []models.Assignment
	err := s.runTx(func(tx *goqu.TxDatabase) error {
		var err error
		rows, err = s.ledger.ListByEmployee(tx, employeeID)
		return err
	})
	return rows, err
}

func (s *Service) loadResourceAndEmployee(tx *goqu.TxDatabase, kind metadata.ResourceKind, resourceID, employeeID int) (*models.Resource, *models.Employee, error) {
	res, err := s.resources.FindByID(tx, kind, resourceID)
	if err != nil {
		return nil, nil, err
	}
	if res == nil {
		return nil, nil, custom_error.NewNotFound(kind.Label(), fmt.Sprintf("id %d", resourceID))
	}

	emp, err := s.master.FindEmployeeByID(tx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	if emp == nil {
		return nil, nil, custom_error.NewNotFound("employee", fmt.Sprintf("id %d", employeeID))
	}
	if !emp.IsActive() {
		return nil, nil, custom_error.NewInvalidState("employee %q is not active", emp.Number)
	}

	return res, emp, nil
}

// activeRow resolves the custody row being returned: resource alone for
// exclusive kinds, the (resource, employee) pair otherwise.
func (s *Service) activeRow(tx *goqu.TxDatabase, req UnassignRequest, res *models.Resource) (*models.Assignment, error) {
	var row *models.Assignment
	var err error
	if req.Kind.Policy() == metadata.PolicyExclusive {
		row, err = s.ledger.ActiveByResource(tx, req.Kind, res.ID)
	} else {
		row, err = s.ledger.ActiveByResourceAndEmployee(tx, req.Kind, res.ID, req.EmployeeID)
	}
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, custom_error.NewNotFound("active assignment", fmt.Sprintf("%s id %d", req.Kind, req.ResourceID))
	}
	return row, nil
}

func (s *Service) partialReturn(tx *goqu.TxDatabase, row *models.Assignment, quantity int, notes, actor string) error {
	row.Quantity -= quantity
	message := fmt.Sprintf("%d unit(s)", quantity)
	if notes != "" {
		message += " - " + notes
	}
	row.AppendNote("Partial return", message)
	row.UpdatedBy = actor
	row.UpdatedAt = time.Now()
	return s.ledger.Update(tx, row)
}

func (s *Service) fullReturn(tx *goqu.TxDatabase, row *models.Assignment, notes, actor string) error {
	now := time.Now()
	row.Status = metadata.AssignmentReturned
	row.ReturnedAt = &now
	if notes == "" {
		notes = "returned"
	}
	row.AppendNote("Returned", notes)
	row.UpdatedBy = actor
	row.UpdatedAt = now
	return s.ledger.Update(tx, row)
}

func newAssignment(res *models.Resource, emp *models.Employee, quantity int, notes, actor string) *models.Assignment {
	now := time.Now()
	return &models.Assignment{
		ResourceID:   res.ID,
		ResourceKind: res.Kind,
		EmployeeID:   emp.ID,
		Status:       metadata.AssignmentAssigned,
		Quantity:     quantity,
		AssignedAt:   now,
		Notes:        notes,
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedBy:    actor,
		UpdatedAt:    now,
	}
}
