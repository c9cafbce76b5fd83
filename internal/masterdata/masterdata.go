// Package masterdata exposes the lookup tables bulk import resolves names
// against: item categories, items, SIM providers, SIM types and SIM card
// plans, plus id/natural-key lookup for employees and projects.
package masterdata

import (
	"fmt"

	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type Collection string

const (
	Categories   Collection = "categories"
	Items        Collection = "items"
	SimProviders Collection = "sim_providers"
	SimTypes     Collection = "sim_types"
	SimPlans     Collection = "sim_plans"
)

type Store interface {
	// List returns the whole collection; import preloads it once per batch.
	List(tx *goqu.TxDatabase, c Collection) ([]models.NamedEntity, error)
	// Create inserts a named entity; parentID is required for Items (their
	// category) and must be nil elsewhere.
	Create(tx *goqu.TxDatabase, c Collection, name string, parentID *int) (*models.NamedEntity, error)

	FindEmployeeByID(tx *goqu.TxDatabase, id int) (*models.Employee, error)
	FindEmployeeByNumber(tx *goqu.TxDatabase, number string) (*models.Employee, error)
	ListEmployees(tx *goqu.TxDatabase) ([]models.Employee, error)
	FindProjectByID(tx *goqu.TxDatabase, id int) (*models.Project, error)
}

// tableFor maps a collection to its table and parent column, if any.
func tableFor(c Collection) (table string, parentColumn string, err error) {
	switch c {
	case Categories:
		return "item_categories", "", nil
	case Items:
		return "items", "category_id", nil
	case SimProviders:
		return "sim_providers", "", nil
	case SimTypes:
		return "sim_types", "", nil
	case SimPlans:
		return "sim_plans", "", nil
	default:
		return "", "", fmt.Errorf("unknown master data collection: %s", c)
	}
}
