// Package catalog is the thin read/upsert surface over the four resource
// kinds. No business rules live here; the assignment ledger and the import
// engine are written against Store so they can be tested against the
// in-memory double.
package catalog

import (
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type Store interface {
	// FindByID returns nil, nil when no resource of the kind exists under id.
	FindByID(tx *goqu.TxDatabase, kind metadata.ResourceKind, id int) (*models.Resource, error)
	// FindByNaturalKey matches the business key (asset tag, accessory name,
	// SIM account number, license key) case-insensitively.
	FindByNaturalKey(tx *goqu.TxDatabase, kind metadata.ResourceKind, key string) (*models.Resource, error)
	ListByKind(tx *goqu.TxDatabase, kind metadata.ResourceKind) ([]models.Resource, error)
	// Upsert inserts when ID is zero, updates in place otherwise.
	Upsert(tx *goqu.TxDatabase, res *models.Resource) (*models.Resource, error)
	UpdateStatus(tx *goqu.TxDatabase, id int, status metadata.Status) error
}
