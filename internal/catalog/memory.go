package catalog

import (
	"fmt"
	"strings"
	"sync"

	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// MemoryStore is the in-memory double the ledger and import engine tests
// run against. The tx parameter is accepted and ignored.
type MemoryStore struct {
	mu        sync.Mutex
	nextID    int
	resources map[int]*models.Resource
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:    1,
		resources: make(map[int]*models.Resource),
	}
}

func (m *MemoryStore) FindByID(_ *goqu.TxDatabase, kind metadata.ResourceKind, id int) (*models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.resources[id]
	if !ok || res.Kind != kind {
		return nil, nil
	}
	clone := *res
	return &clone, nil
}

func (m *MemoryStore) FindByNaturalKey(_ *goqu.TxDatabase, kind metadata.ResourceKind, key string) (*models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := strings.ToLower(strings.TrimSpace(key))
	for _, res := range m.resources {
		if res.Kind == kind && strings.ToLower(res.NaturalKey) == want {
			clone := *res
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ListByKind(_ *goqu.TxDatabase, kind metadata.ResourceKind) ([]models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Resource
	for id := 1; id < m.nextID; id++ {
		if res, ok := m.resources[id]; ok && res.Kind == kind {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (m *MemoryStore) Upsert(_ *goqu.TxDatabase, res *models.Resource) (*models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if res.ID == 0 {
		res.ID = m.nextID
		m.nextID++
	}
	clone := *res
	m.resources[res.ID] = &clone
	return res, nil
}

func (m *MemoryStore) UpdateStatus(_ *goqu.TxDatabase, id int, status metadata.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.resources[id]
	if !ok {
		return custom_error.NewNotFound("resource", fmt.Sprintf("id %d", id))
	}
	res.Status = status
	return nil
}
