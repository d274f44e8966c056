package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/you-humble/asset-tracker/internal/model"
)

type Journal struct {
	mu    sync.Mutex
	items map[string]model.Intent

	Err error
}

func NewJournal() *Journal {
	return &Journal{items: make(map[string]model.Intent)}
}

func (j *Journal) Begin(_ context.Context, in *model.Intent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return j.Err
	}
	now := time.Now().UTC()
	in.State = model.IntentPending
	in.CreatedAt = now
	in.UpdatedAt = now
	j.items[in.ID] = *in
	return nil
}

func (j *Journal) Step(_ context.Context, id, step string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	in, ok := j.items[id]
	if !ok {
		return nil
	}
	in.Steps = append(append([]string(nil), in.Steps...), step)
	in.UpdatedAt = time.Now().UTC()
	j.items[id] = in
	return nil
}

func (j *Journal) Finish(_ context.Context, id string, state model.IntentState) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	in, ok := j.items[id]
	if !ok {
		return nil
	}
	in.State = state
	in.UpdatedAt = time.Now().UTC()
	j.items[id] = in
	return nil
}

func (j *Journal) ListStale(_ context.Context, before time.Time) ([]*model.Intent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return nil, j.Err
	}
	out := make([]*model.Intent, 0)
	for _, in := range j.items {
		if in.State == model.IntentPending && in.UpdatedAt.Before(before) {
			c := in
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].UpdatedAt.Before(out[b].UpdatedAt) })
	return out, nil
}

func (j *Journal) ListInFlight(_ context.Context, since time.Time) ([]*model.Intent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return nil, j.Err
	}
	out := make([]*model.Intent, 0)
	for _, in := range j.items {
		if in.State == model.IntentPending && !in.UpdatedAt.Before(since) {
			c := in
			out = append(out, &c)
		}
	}
	return out, nil
}

// Put stores an intent as is.
func (j *Journal) Put(in model.Intent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.items[in.ID] = in
}

// ByState returns intents in the given state.
func (j *Journal) ByState(state model.IntentState) []model.Intent {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []model.Intent
	for _, in := range j.items {
		if in.State == state {
			out = append(out, in)
		}
	}
	return out
}
