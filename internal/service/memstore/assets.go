package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/you-humble/asset-tracker/internal/model"
)

type Assets struct {
	mu    sync.Mutex
	kind  model.Kind
	items map[string]model.Asset
	seq   int

	// Conflicts makes the next n conditional updates lose against a
	// simulated concurrent writer.
	Conflicts int
	// Err, when set, is returned by every call.
	Err error
}

func NewAssets(kind model.Kind) *Assets {
	return &Assets{kind: kind, items: make(map[string]model.Asset)}
}

// Put stores a as is, bypassing every rule. Used to seed inconsistent state
// and documents that predate versioning (Version 0).
func (m *Assets) Put(a model.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.Kind = m.kind
	m.seq++
	a.CreatedAt = lo.ToPtr(time.Unix(int64(m.seq), 0).UTC())
	m.items[a.ID] = cloneAsset(a)
}

// Get returns a copy of the stored asset.
func (m *Assets) Get(id string) (model.Asset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	return cloneAsset(a), ok
}

func (m *Assets) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Assets) Create(_ context.Context, a *model.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.items[a.ID]; ok {
		return fmt.Errorf("%w: id %s already taken", model.ErrConflict, a.ID)
	}
	m.seq++
	now := time.Unix(int64(m.seq), 0).UTC()
	a.Kind = m.kind
	a.Version = 1
	a.CreatedAt = lo.ToPtr(now)
	a.UpdatedAt = lo.ToPtr(now)
	m.items[a.ID] = cloneAsset(*a)
	return nil
}

func (m *Assets) AssetByID(_ context.Context, id string) (*model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrAssetNotFound, id)
	}
	out := cloneAsset(a)
	return &out, nil
}

func (m *Assets) Update(_ context.Context, id string, version int64, w model.AssetWrite) (*model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrAssetNotFound, id)
	}
	if m.Conflicts > 0 {
		m.Conflicts--
		a.Version++
		m.items[id] = a
	}
	if a.Version != version {
		return nil, fmt.Errorf("%w: asset %s changed since version %d", model.ErrConflict, id, version)
	}

	w.Attributes.Apply(&a)
	a.Status = w.Status
	a.AssignedTo = nil
	if w.AssignedTo != nil {
		a.AssignedTo = lo.ToPtr(*w.AssignedTo)
	}
	a.Version++
	m.items[id] = a

	out := cloneAsset(a)
	return &out, nil
}

func (m *Assets) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("%w: %s", model.ErrAssetNotFound, id)
	}
	delete(m.items, id)
	return nil
}

func (m *Assets) List(_ context.Context, f model.AssetsFilter) ([]*model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]*model.Asset, 0)
	for _, a := range m.items {
		if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, a.Status) {
			continue
		}
		if f.AssignedTo != "" && a.Holder() != f.AssignedTo {
			continue
		}
		c := cloneAsset(a)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(*out[j].CreatedAt)
	})

	return out, nil
}

func (m *Assets) CountByStatus(ctx context.Context) (model.AssetStats, error) {
	all, err := m.List(ctx, model.AssetsFilter{})
	if err != nil {
		return model.AssetStats{}, err
	}

	var st model.AssetStats
	for _, a := range all {
		st.Total++
		switch a.Status {
		case model.StatusStore:
			st.Store++
		case model.StatusUsed:
			st.Used++
		case model.StatusRepair:
			st.Repair++
		}
	}
	return st, nil
}

func (m *Assets) Detach(_ context.Context, id, employeeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	a, ok := m.items[id]
	if !ok || a.Holder() != employeeID {
		return false, nil
	}
	m.items[id] = detached(a)
	return true, nil
}

func (m *Assets) DetachAllFrom(_ context.Context, employeeID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var ids []string
	for id, a := range m.items {
		if a.Holder() == employeeID {
			m.items[id] = detached(a)
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func detached(a model.Asset) model.Asset {
	a.AssignedTo = nil
	a.Status = model.StatusStore
	a.Version++
	return a
}

func cloneAsset(a model.Asset) model.Asset {
	if a.AssignedTo != nil {
		a.AssignedTo = lo.ToPtr(*a.AssignedTo)
	}
	return a
}
