package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"assetdesk/internal/repository"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

const resourcesTable = "resources"

type ResourceRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ResourceRepository {
	return &ResourceRepository{repository: r}
}

// db returns the transaction when one is in flight, the base wrapper otherwise.
func (r *ResourceRepository) db(tx *goqu.TxDatabase) goquDatabase {
	if tx != nil {
		return tx
	}
	return r.repository.GoquDBWrapper
}

// goquDatabase is the subset shared by *goqu.Database and *goqu.TxDatabase.
type goquDatabase interface {
	Select(cols ...interface{}) *goqu.SelectDataset
	From(table ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
}

func (r *ResourceRepository) FindByID(tx *goqu.TxDatabase, kind metadata.ResourceKind, id int) (*models.Resource, error) {
	return r.fetchByCondition(tx, goqu.Ex{"kind": string(kind), "id": id})
}

func (r *ResourceRepository) FindByNaturalKey(tx *goqu.TxDatabase, kind metadata.ResourceKind, key string) (*models.Resource, error) {
	return r.fetchByCondition(tx, goqu.Ex{
		"kind": string(kind),
		"natural_key": goqu.Op{"ilike": strings.TrimSpace(key)},
	})
}

func (r *ResourceRepository) ListByKind(tx *goqu.TxDatabase, kind metadata.ResourceKind) ([]models.Resource, error) {
	var resources []models.Resource
	query := r.db(tx).From(resourcesTable).
		Where(goqu.Ex{"kind": string(kind)}).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&resources); err != nil {
		return nil, fmt.Errorf("unable to select %s resources from database: %w", kind, err)
	}

	return resources, nil
}

func (r *ResourceRepository) Upsert(tx *goqu.TxDatabase, res *models.Resource) (*models.Resource, error) {
	if res.ID == 0 {
		return r.insert(tx, res)
	}
	return r.update(tx, res)
}

func (r *ResourceRepository) UpdateStatus(tx *goqu.TxDatabase, id int, status metadata.Status) error {
	result, err := r.db(tx).Update(resourcesTable).
		Set(goqu.Record{"status": string(status), "updated_at": time.Now()}).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update resource status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("resource", fmt.Sprintf("id %d", id))
	}

	return nil
}

func (r *ResourceRepository) insert(tx *goqu.TxDatabase, res *models.Resource) (*models.Resource, error) {
	query := r.db(tx).Insert(resourcesTable).
		Rows(resourceRecord(res)).
		Returning("id")

	if _, err := query.Executor().ScanVal(&res.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError(fmt.Sprintf("duplicate %s natural key %q", res.Kind, res.NaturalKey), string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert resource record: %w", err)
	}

	return res, nil
}

func (r *ResourceRepository) update(tx *goqu.TxDatabase, res *models.Resource) (*models.Resource, error) {
	result, err := r.db(tx).Update(resourcesTable).
		Set(resourceRecord(res)).
		Where(goqu.Ex{"id": res.ID}).
		Executor().
		Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError(fmt.Sprintf("duplicate %s natural key %q", res.Kind, res.NaturalKey), string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update resource record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, custom_error.NewNotFound("resource", fmt.Sprintf("id %d", res.ID))
	}

	return res, nil
}

func (r *ResourceRepository) fetchByCondition(tx *goqu.TxDatabase, condition goqu.Expression) (*models.Resource, error) {
	var res models.Resource
	query := r.db(tx).From(resourcesTable).Where(condition)

	found, err := query.Executor().ScanStruct(&res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to select resource from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &res, nil
}

func resourceRecord(res *models.Resource) goqu.Record {
	record := goqu.Record{
		"kind":        string(res.Kind),
		"natural_key": res.NaturalKey,
		"name":        res.Name,
		"description": res.Description,
		"status":      string(res.Status),
		"quantity":    res.Quantity,
		"seats":       res.Seats,
		"notes":       res.Notes,
		"created_by":  res.CreatedBy,
		"created_at":  res.CreatedAt,
		"updated_by":  res.UpdatedBy,
		"updated_at":  res.UpdatedAt,
	}

	record["serial"] = optional(res.Serial)
	record["condition"] = optional(res.Condition)
	record["category_id"] = optionalInt(res.CategoryID)
	record["item_id"] = optionalInt(res.ItemID)
	record["provider_id"] = optionalInt(res.ProviderID)
	record["sim_type_id"] = optionalInt(res.SimTypeID)
	record["sim_plan_id"] = optionalInt(res.SimPlanID)
	record["project_id"] = optionalInt(res.ProjectID)

	return record
}

func optional(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
