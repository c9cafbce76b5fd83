package assignments

import (
	"database/sql"
	"errors"
	"fmt"

	"assetdesk/internal/repository"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

const assignmentsTable = "assignments"

type AssignmentRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssignmentRepository {
	return &AssignmentRepository{repository: r}
}

type goquDatabase interface {
	Select(cols ...interface{}) *goqu.SelectDataset
	From(table ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
}

func (r *AssignmentRepository) db(tx *goqu.TxDatabase) goquDatabase {
	if tx != nil {
		return tx
	}
	return r.repository.GoquDBWrapper
}

func (r *AssignmentRepository) ActiveByResource(tx *goqu.TxDatabase, kind metadata.ResourceKind, resourceID int) (*models.Assignment, error) {
	return r.fetchByCondition(tx, goqu.Ex{
		"resource_kind": string(kind),
		"resource_id":   resourceID,
		"status":        string(metadata.AssignmentAssigned),
	})
}

func (r *AssignmentRepository) ActiveByResourceAndEmployee(tx *goqu.TxDatabase, kind metadata.ResourceKind, resourceID, employeeID int) (*models.Assignment, error) {
	return r.fetchByCondition(tx, goqu.Ex{
		"resource_kind": string(kind),
		"resource_id":   resourceID,
		"employee_id":   employeeID,
		"status":        string(metadata.AssignmentAssigned),
	})
}

func (r *AssignmentRepository) CountActiveByResource(tx *goqu.TxDatabase, kind metadata.ResourceKind, resourceID int) (int, error) {
	var count int
	query := r.db(tx).From(assignmentsTable).
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{
			"resource_kind": string(kind),
			"resource_id":   resourceID,
			"status":        string(metadata.AssignmentAssigned),
		})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count active assignments: %w", err)
	}

	return count, nil
}

func (r *AssignmentRepository) Insert(tx *goqu.TxDatabase, assignment *models.Assignment) (*models.Assignment, error) {
	record := goqu.Record{
		"resource_id":   assignment.ResourceID,
		"resource_kind": string(assignment.ResourceKind),
		"employee_id":   assignment.EmployeeID,
		"status":        string(assignment.Status),
		"quantity":      assignment.Quantity,
		"assigned_at":   assignment.AssignedAt,
		"notes":         assignment.Notes,
		"created_by":    assignment.CreatedBy,
		"created_at":    assignment.CreatedAt,
		"updated_by":    assignment.UpdatedBy,
		"updated_at":    assignment.UpdatedAt,
	}

	query := r.db(tx).Insert(assignmentsTable).Rows(record).Returning("id")
	if _, err := query.Executor().ScanVal(&assignment.ID); err != nil {
		// The partial unique index on active exclusive assignments turns a
		// losing concurrent assign into a conflict here.
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("resource already has an active assignment", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert assignment record: %w", err)
	}

	return assignment, nil
}

func (r *AssignmentRepository) Update(tx *goqu.TxDatabase, assignment *models.Assignment) error {
	record := goqu.Record{
		"status":     string(assignment.Status),
		"quantity":   assignment.Quantity,
		"notes":      assignment.Notes,
		"updated_by": assignment.UpdatedBy,
		"updated_at": assignment.UpdatedAt,
	}
	if assignment.ReturnedAt != nil {
		record["returned_at"] = *assignment.ReturnedAt
	}

	result, err := r.db(tx).Update(assignmentsTable).
		Set(record).
		Where(goqu.Ex{"id": assignment.ID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update assignment record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("assignment", fmt.Sprintf("id %d", assignment.ID))
	}

	return nil
}

func (r *AssignmentRepository) ListByEmployee(tx *goqu.TxDatabase, employeeID int) ([]models.Assignment, error) {
	var rows []models.Assignment
	query := r.db(tx).From(assignmentsTable).
		Where(goqu.Ex{"employee_id": employeeID}).
		Order(goqu.I("assigned_at").Desc())

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to select assignments from database: %w", err)
	}

	return rows, nil
}

func (r *AssignmentRepository) fetchByCondition(tx *goqu.TxDatabase, condition goqu.Expression) (*models.Assignment, error) {
	var row models.Assignment
	query := r.db(tx).From(assignmentsTable).Where(condition)

	found, err := query.Executor().ScanStruct(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to select assignment from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &row, nil
}
