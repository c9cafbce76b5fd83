package masterdata

import (
	"strings"
	"sync"

	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// MemoryStore is the in-memory double used by ledger and import tests.
type MemoryStore struct {
	mu          sync.Mutex
	nextID      int
	collections map[Collection][]models.NamedEntity
	Employees   []models.Employee
	Projects    []models.Project
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:      1,
		collections: make(map[Collection][]models.NamedEntity),
	}
}

// Seed appends an entity without going through validation; for test setup.
func (m *MemoryStore) Seed(c Collection, name string, parentID *int) models.NamedEntity {
	m.mu.Lock()
	defer m.mu.Unlock()
	entity := models.NamedEntity{ID: m.nextID, Name: name, ParentID: parentID}
	m.nextID++
	m.collections[c] = append(m.collections[c], entity)
	return entity
}

func (m *MemoryStore) List(_ *goqu.TxDatabase, c Collection) ([]models.NamedEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.NamedEntity, len(m.collections[c]))
	copy(out, m.collections[c])
	return out, nil
}

func (m *MemoryStore) Create(_ *goqu.TxDatabase, c Collection, name string, parentID *int) (*models.NamedEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, custom_error.NewValidation("%s name must not be empty", c)
	}
	for _, existing := range m.collections[c] {
		if strings.EqualFold(existing.Name, name) {
			return nil, custom_error.NewConflict("duplicate %s name %q", c, name)
		}
	}

	entity := models.NamedEntity{ID: m.nextID, Name: name, ParentID: parentID}
	m.nextID++
	m.collections[c] = append(m.collections[c], entity)
	return &entity, nil
}

func (m *MemoryStore) FindEmployeeByID(_ *goqu.TxDatabase, id int) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Employees {
		if m.Employees[i].ID == id {
			clone := m.Employees[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) FindEmployeeByNumber(_ *goqu.TxDatabase, number string) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Employees {
		if strings.EqualFold(m.Employees[i].Number, strings.TrimSpace(number)) {
			clone := m.Employees[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ListEmployees(_ *goqu.TxDatabase) ([]models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Employee, len(m.Employees))
	copy(out, m.Employees)
	return out, nil
}

func (m *MemoryStore) FindProjectByID(_ *goqu.TxDatabase, id int) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Projects {
		if m.Projects[i].ID == id {
			clone := m.Projects[i]
			return &clone, nil
		}
	}
	return nil, nil
}
