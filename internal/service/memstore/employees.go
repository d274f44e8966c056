package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/you-humble/asset-tracker/internal/model"
)

type Employees struct {
	mu    sync.Mutex
	items map[string]model.Employee
	order []string

	// BeforeClaim runs before each Claim, outside the lock.
	BeforeClaim func(id string)
	// Err, when set, is returned by every call.
	Err error
	// FailRelease, when set, is returned by Release only.
	FailRelease error

	claims int
}

func NewEmployees() *Employees {
	return &Employees{items: make(map[string]model.Employee)}
}

// Put stores e as is, bypassing every rule.
func (m *Employees) Put(e model.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.Status == "" {
		e.Status = model.EmployeeActive
	}
	if _, ok := m.items[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.items[e.ID] = cloneEmployee(e)
}

func (m *Employees) Get(id string) (model.Employee, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	return cloneEmployee(e), ok
}

// Remove deletes an employee without any checks.
func (m *Employees) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
}

func (m *Employees) Create(_ context.Context, e *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.items[e.ID]; ok {
		return fmt.Errorf("%w: id %s already taken", model.ErrConflict, e.ID)
	}
	m.items[e.ID] = cloneEmployee(*e)
	m.order = append(m.order, e.ID)
	return nil
}

func (m *Employees) EmployeeByID(_ context.Context, id string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	e, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrEmployeeNotFound, id)
	}
	out := cloneEmployee(e)
	return &out, nil
}

func (m *Employees) Update(_ context.Context, id string, p model.EmployeeProfile) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	e, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrEmployeeNotFound, id)
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.EmploymentType != nil {
		e.EmploymentType = *p.EmploymentType
	}
	if p.TempEndDate != nil {
		t := *p.TempEndDate
		e.TempEndDate = &t
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	m.items[id] = e
	out := cloneEmployee(e)
	return &out, nil
}

func (m *Employees) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("%w: %s", model.ErrEmployeeNotFound, id)
	}
	delete(m.items, id)
	return nil
}

func (m *Employees) List(_ context.Context) ([]*model.Employee, error) {
	return m.filter(func(model.Employee) bool { return true })
}

func (m *Employees) ListAvailableFor(_ context.Context, kind model.Kind) ([]*model.Employee, error) {
	return m.filter(func(e model.Employee) bool {
		_, holds := e.Holding(kind)
		return e.Status == model.EmployeeActive && !holds
	})
}

func (m *Employees) ListHolding(_ context.Context, kind model.Kind, assetID string) ([]*model.Employee, error) {
	return m.filter(func(e model.Employee) bool {
		h, ok := e.Holding(kind)
		return ok && h.AssetID == assetID
	})
}

func (m *Employees) Claim(_ context.Context, id string, kind model.Kind, assetID string) (model.Holding, error) {
	if m.BeforeClaim != nil {
		m.BeforeClaim(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return model.Holding{}, m.Err
	}
	m.claims++
	e, ok := m.items[id]
	if !ok {
		return model.Holding{}, fmt.Errorf("%w: %s", model.ErrEmployeeNotFound, id)
	}
	prev, _ := e.Holding(kind)
	if e.Holdings == nil {
		e.Holdings = make(map[model.Kind]model.Holding)
	}
	e.Holdings[kind] = model.Holding{AssetID: assetID, Status: model.StatusUsed}
	m.items[id] = e
	return prev, nil
}

func (m *Employees) Release(_ context.Context, id string, kind model.Kind, assetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if m.FailRelease != nil {
		return false, m.FailRelease
	}
	e, ok := m.items[id]
	if !ok {
		return false, nil
	}
	h, holds := e.Holding(kind)
	if !holds || h.AssetID != assetID {
		return false, nil
	}
	delete(e.Holdings, kind)
	m.items[id] = e
	return true, nil
}

func (m *Employees) SyncStatus(_ context.Context, id string, kind model.Kind, assetID string, st model.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	e, ok := m.items[id]
	if !ok {
		return false, nil
	}
	h, holds := e.Holding(kind)
	if !holds || h.AssetID != assetID || h.Status == st {
		return false, nil
	}
	e.Holdings[kind] = model.Holding{AssetID: assetID, Status: st}
	m.items[id] = e
	return true, nil
}

func (m *Employees) filter(keep func(model.Employee) bool) ([]*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*model.Employee, 0)
	for i := len(m.order) - 1; i >= 0; i-- {
		e, ok := m.items[m.order[i]]
		if !ok || !keep(e) {
			continue
		}
		c := cloneEmployee(e)
		out = append(out, &c)
	}
	return out, nil
}

// Claims returns how many Claim calls reached the store.
func (m *Employees) Claims() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claims
}

// IDs returns the ids of stored employees in ascending order.
func (m *Employees) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func cloneEmployee(e model.Employee) model.Employee {
	if e.Holdings != nil {
		h := make(map[model.Kind]model.Holding, len(e.Holdings))
		for k, v := range e.Holdings {
			h[k] = v
		}
		e.Holdings = h
	}
	return e
}
