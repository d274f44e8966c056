package memstore

import (
	"context"
	"sync"

	"github.com/you-humble/asset-tracker/internal/model"
)

// Store bundles one Assets per kind with the employee and journal stores.
type Store struct {
	Assets    map[model.Kind]*Assets
	Employees *Employees
	Journal   *Journal
	Counters  *Counters
	Events    *Events
}

func New() *Store {
	s := &Store{
		Assets:    make(map[model.Kind]*Assets),
		Employees: NewEmployees(),
		Journal:   NewJournal(),
		Counters:  NewCounters(),
		Events:    &Events{},
	}
	for _, k := range model.Kinds() {
		s.Assets[k] = NewAssets(k)
	}
	return s
}

type Counters struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func NewCounters() *Counters { return &Counters{seqs: make(map[string]int64)} }

func (c *Counters) Next(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[key]++
	return c.seqs[key], nil
}

// Events records published assignment events.
type Events struct {
	mu     sync.Mutex
	events []model.AssignmentEvent

	Err error
}

func (e *Events) PublishAssignment(_ context.Context, ev model.AssignmentEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.events = append(e.events, ev)
	return nil
}

func (e *Events) All() []model.AssignmentEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.AssignmentEvent(nil), e.events...)
}

// Metrics counts observations by label.
type Metrics struct {
	mu          sync.Mutex
	Transitions map[model.Transition]int
	Conflicts   int
	Failures    map[string]int
	Repairs     map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{
		Transitions: make(map[model.Transition]int),
		Failures:    make(map[string]int),
		Repairs:     make(map[string]int),
	}
}

func (m *Metrics) ObserveTransition(_ model.Kind, t model.Transition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions[t]++
}

func (m *Metrics) ObserveConflict(model.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Conflicts++
}

func (m *Metrics) ObserveFailure(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[op]++
}

func (m *Metrics) ObserveRepair(_ model.Kind, action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Repairs[action]++
}
