package service

import (
	"context"
	"sync"
	"time"

	"techgarantias/internal/domain"
)

type mockProfileRepo struct {
	createFn      func(ctx context.Context, p *domain.Profile) error
	findByIDFn    func(ctx context.Context, id string) (*domain.Profile, error)
	findByEmailFn func(ctx context.Context, email string) (*domain.Profile, error)
	hasAdminFn    func(ctx context.Context) (bool, error)
}

func (m *mockProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileRepo) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileRepo) HasAdmin(ctx context.Context) (bool, error) {
	if m.hasAdminFn != nil {
		return m.hasAdminFn(ctx)
	}
	return false, nil
}

type mockWarrantyRepo struct {
	createFn        func(ctx context.Context, w *domain.Warranty) error
	findByIDFn      func(ctx context.Context, id string) (*domain.Warranty, error)
	findByNumberFn  func(ctx context.Context, number string) (*domain.Warranty, error)
	listFn          func(ctx context.Context, q domain.WarrantyQuery) (domain.WarrantyList, error)
	updateStatusFn  func(ctx context.Context, id string, st domain.Status, at time.Time) error
	countByStatusFn func(ctx context.Context, ownerID string) (domain.Stats, error)
}

func (m *mockWarrantyRepo) Create(ctx context.Context, w *domain.Warranty) error {
	if m.createFn != nil {
		return m.createFn(ctx, w)
	}
	return nil
}

func (m *mockWarrantyRepo) FindByID(ctx context.Context, id string) (*domain.Warranty, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockWarrantyRepo) FindByNumber(ctx context.Context, number string) (*domain.Warranty, error) {
	if m.findByNumberFn != nil {
		return m.findByNumberFn(ctx, number)
	}
	return nil, domain.ErrNotFound
}

func (m *mockWarrantyRepo) List(ctx context.Context, q domain.WarrantyQuery) (domain.WarrantyList, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return domain.WarrantyList{}, nil
}

func (m *mockWarrantyRepo) UpdateStatus(ctx context.Context, id string, st domain.Status, at time.Time) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, st, at)
	}
	return nil
}

func (m *mockWarrantyRepo) CountByStatus(ctx context.Context, ownerID string) (domain.Stats, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx, ownerID)
	}
	return domain.Stats{}, nil
}

// memWarrantyRepo 内存实现，用于端到端场景
type memWarrantyRepo struct {
	mu    sync.Mutex
	byID  map[string]*domain.Warranty
	order []string
}

func newMemWarrantyRepo() *memWarrantyRepo {
	return &memWarrantyRepo{byID: map[string]*domain.Warranty{}}
}

func (r *memWarrantyRepo) Create(_ context.Context, w *domain.Warranty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.WarrantyNumber == w.WarrantyNumber {
			return domain.ErrConflict
		}
	}
	cp := *w
	r.byID[w.ID] = &cp
	r.order = append(r.order, w.ID)
	return nil
}

func (r *memWarrantyRepo) FindByID(_ context.Context, id string) (*domain.Warranty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *memWarrantyRepo) FindByNumber(_ context.Context, number string) (*domain.Warranty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.byID {
		if w.WarrantyNumber == number {
			cp := *w
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memWarrantyRepo) List(_ context.Context, q domain.WarrantyQuery) (domain.WarrantyList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ws []domain.Warranty
	for i := len(r.order) - 1; i >= 0; i-- {
		w := r.byID[r.order[i]]
		if q.OwnerID == "" || w.ClientID == q.OwnerID {
			ws = append(ws, *w)
		}
	}
	ws = q.Filter.Apply(ws)
	return domain.WarrantyList{Total: int64(len(ws)), Items: ws}, nil
}

func (r *memWarrantyRepo) UpdateStatus(_ context.Context, id string, st domain.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	w.Status, w.UpdatedAt = st, at
	return nil
}

func (r *memWarrantyRepo) CountByStatus(_ context.Context, ownerID string) (domain.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s domain.Stats
	for _, w := range r.byID {
		if ownerID == "" || w.ClientID == ownerID {
			s.Add(w.Status, 1)
		}
	}
	return s, nil
}
