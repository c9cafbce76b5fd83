package masterdata

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"assetdesk/internal/repository"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type Repository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *Repository {
	return &Repository{repository: r}
}

type goquDatabase interface {
	Select(cols ...interface{}) *goqu.SelectDataset
	From(table ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
}

func (r *Repository) db(tx *goqu.TxDatabase) goquDatabase {
	if tx != nil {
		return tx
	}
	return r.repository.GoquDBWrapper
}

func (r *Repository) List(tx *goqu.TxDatabase, c Collection) ([]models.NamedEntity, error) {
	table, parentColumn, err := tableFor(c)
	if err != nil {
		return nil, err
	}

	cols := []interface{}{goqu.I("id"), goqu.I("name")}
	if parentColumn != "" {
		cols = append(cols, goqu.I(parentColumn).As("parent_id"))
	}

	var entities []models.NamedEntity
	query := r.db(tx).From(table).Select(cols...).Order(goqu.I("id").Asc())
	if err := query.Executor().ScanStructs(&entities); err != nil {
		return nil, fmt.Errorf("unable to select %s from database: %w", c, err)
	}

	return entities, nil
}

func (r *Repository) Create(tx *goqu.TxDatabase, c Collection, name string, parentID *int) (*models.NamedEntity, error) {
	table, parentColumn, err := tableFor(c)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, custom_error.NewValidation("%s name must not be empty", c)
	}

	record := goqu.Record{"name": name}
	if parentColumn != "" {
		if parentID == nil {
			return nil, custom_error.NewValidation("%s require a parent reference", c)
		}
		record[parentColumn] = *parentID
	}

	entity := models.NamedEntity{Name: name, ParentID: parentID}
	query := r.db(tx).Insert(table).Rows(record).Returning("id")
	if _, err := query.Executor().ScanVal(&entity.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError(fmt.Sprintf("duplicate %s name %q", c, name), string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert %s record: %w", c, err)
	}

	return &entity, nil
}

func (r *Repository) FindEmployeeByID(tx *goqu.TxDatabase, id int) (*models.Employee, error) {
	return r.fetchEmployee(tx, goqu.Ex{"id": id})
}

func (r *Repository) FindEmployeeByNumber(tx *goqu.TxDatabase, number string) (*models.Employee, error) {
	return r.fetchEmployee(tx, goqu.Ex{"number": goqu.Op{"ilike": strings.TrimSpace(number)}})
}

func (r *Repository) ListEmployees(tx *goqu.TxDatabase) ([]models.Employee, error) {
	var employees []models.Employee
	query := r.db(tx).From("employees").Order(goqu.I("id").Asc())
	if err := query.Executor().ScanStructs(&employees); err != nil {
		return nil, fmt.Errorf("unable to select employees from database: %w", err)
	}
	return employees, nil
}

func (r *Repository) FindProjectByID(tx *goqu.TxDatabase, id int) (*models.Project, error) {
	var project models.Project
	query := r.db(tx).From("projects").Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&project)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to select project from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &project, nil
}

func (r *Repository) fetchEmployee(tx *goqu.TxDatabase, condition goqu.Expression) (*models.Employee, error) {
	var employee models.Employee
	query := r.db(tx).From("employees").Where(condition)

	found, err := query.Executor().ScanStruct(&employee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to select employee from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &employee, nil
}
