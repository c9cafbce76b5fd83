// Package imports reconciles external spreadsheet batches against the
// resource catalog: resolve or auto-create referenced master data, upsert
// resources by natural key, and wire assignments for resolvable assignees.
// One bad row never aborts the batch.
package imports

import (
	"fmt"
	"time"

	"assetdesk/internal/assignments"
	"assetdesk/internal/catalog"
	"assetdesk/internal/masterdata"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// defaultCategoryName is created on demand when an item's category cannot
// be inferred from the batch.
const defaultCategoryName = "General"

type Engine struct {
	resources catalog.Store
	master    masterdata.Store
	ledger    assignments.Store
	runTx     assignments.TxRunner
	log       *zap.Logger
}

func NewEngine(resources catalog.Store, master masterdata.Store, ledger assignments.Store, runTx assignments.TxRunner, log *zap.Logger) *Engine {
	return &Engine{
		resources: resources,
		master:    master,
		ledger:    ledger,
		runTx:     runTx,
		log:       log,
	}
}

// nameIndex maps a normalized master-data name to its id.
type nameIndex map[string]int

func indexNames(entities []models.NamedEntity) nameIndex {
	index := make(nameIndex, len(entities))
	for _, entity := range entities {
		index[normalizeKey(entity.Name)] = entity.ID
	}
	return index
}

func indexEmployees(employees []models.Employee) map[string]models.Employee {
	index := make(map[string]models.Employee, len(employees))
	for _, emp := range employees {
		index[normalizeKey(emp.Number)] = emp
	}
	return index
}

func indexResources(resources []models.Resource) map[string]*models.Resource {
	index := make(map[string]*models.Resource, len(resources))
	for i := range resources {
		index[normalizeKey(resources[i].NaturalKey)] = &resources[i]
	}
	return index
}

// checkProject validates the batch-wide target project. An unknown project
// aborts the whole batch before any row is touched.
func (e *Engine) checkProject(projectID *int) error {
	if projectID == nil {
		return nil
	}
	project, err := e.master.FindProjectByID(nil, *projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return custom_error.NewNotFound("project", fmt.Sprintf("id %d", *projectID))
	}
	return nil
}

// ensureNamed creates every name in the batch that the flat collection does
// not already carry, updating the index in place.
func (e *Engine) ensureNamed(tx *goqu.TxDatabase, collection masterdata.Collection, names []string, index nameIndex) error {
	for _, name := range names {
		key := normalizeKey(name)
		if key == "" {
			continue
		}
		if _, ok := index[key]; ok {
			continue
		}
		created, err := e.master.Create(tx, collection, name, nil)
		if err != nil {
			return err
		}
		index[key] = created.ID
	}
	return nil
}

func (e *Engine) ensureDefaultCategory(tx *goqu.TxDatabase, categories nameIndex) (int, error) {
	key := normalizeKey(defaultCategoryName)
	if id, ok := categories[key]; ok {
		return id, nil
	}
	created, err := e.master.Create(tx, masterdata.Categories, defaultCategoryName, nil)
	if err != nil {
		return 0, err
	}
	categories[key] = created.ID
	return created.ID, nil
}

// batchFault collapses a persistence failure into the single synthetic
// outcome the contract promises. Counts are dropped: the transaction rolled
// back, so nothing they describe survived.
func (e *Engine) batchFault(kind metadata.ResourceKind, err error) *Outcome {
	if e.log != nil {
		e.log.Error("import batch failed to persist",
			zap.String("kind", kind.String()),
			zap.Error(err))
	}
	outcome := newOutcome()
	outcome.addError(0, "batch persistence failed: %v", err)
	return outcome
}

// recordAssignment wires an imported resource to its assignee. This is a
// bonus effect of import: an assignee that does not resolve is skipped
// silently, an existing active assignment is left alone, and import never
// unassigns anything.
func (e *Engine) recordAssignment(tx *goqu.TxDatabase, res *models.Resource, employees map[string]models.Employee, assignedTo, actor string) error {
	key := normalizeKey(assignedTo)
	if key == "" {
		return nil
	}
	emp, ok := employees[key]
	if !ok || !emp.IsActive() {
		return nil
	}

	active, err := e.ledger.ActiveByResource(tx, res.Kind, res.ID)
	if err != nil {
		return err
	}
	if active != nil {
		return nil
	}

	now := time.Now()
	if _, err := e.ledger.Insert(tx, &models.Assignment{
		ResourceID:   res.ID,
		ResourceKind: res.Kind,
		EmployeeID:   emp.ID,
		Status:       metadata.AssignmentAssigned,
		Quantity:     1,
		AssignedAt:   now,
		Notes:        "Assigned during import",
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedBy:    actor,
		UpdatedAt:    now,
	}); err != nil {
		return err
	}

	return e.resources.UpdateStatus(tx, res.ID, metadata.StatusAssigned)
}
