package assignments

import (
	"sort"
	"sync"

	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// MemoryStore is the in-memory custody ledger double for tests.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*models.Assignment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		rows:   make(map[int]*models.Assignment),
	}
}

func (m *MemoryStore) ActiveByResource(_ *goqu.TxDatabase, kind metadata.ResourceKind, resourceID int) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ResourceKind == kind && row.ResourceID == resourceID && row.Active() {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ActiveByResourceAndEmployee(_ *goqu.TxDatabase, kind metadata.ResourceKind, resourceID, employeeID int) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ResourceKind == kind && row.ResourceID == resourceID && row.EmployeeID == employeeID && row.Active() {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CountActiveByResource(_ *goqu.TxDatabase, kind metadata.ResourceKind, resourceID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, row := range m.rows {
		if row.ResourceKind == kind && row.ResourceID == resourceID && row.Active() {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) Insert(_ *goqu.TxDatabase, assignment *models.Assignment) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment.ID = m.nextID
	m.nextID++
	clone := *assignment
	m.rows[assignment.ID] = &clone
	return assignment, nil
}

func (m *MemoryStore) Update(_ *goqu.TxDatabase, assignment *models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *assignment
	m.rows[assignment.ID] = &clone
	return nil
}

func (m *MemoryStore) ListByEmployee(_ *goqu.TxDatabase, employeeID int) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Assignment
	for _, row := range m.rows {
		if row.EmployeeID == employeeID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// All returns every row ordered by id; for test assertions.
func (m *MemoryStore) All() []models.Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Assignment
	for _, row := range m.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
