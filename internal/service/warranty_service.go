package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"techgarantias/internal/core/cache"
	"techgarantias/internal/domain"
	"techgarantias/pkg/utils"
)

// LookupCache 公开查询缓存；nil 表示不缓存
type LookupCache interface {
	cache.Loader
	cache.Setter
	Delete(ctx context.Context, keys ...string) error
}

type WarrantyOptions struct {
	NumberPrefix  string
	NumberRetries int
	PageSize      int
	MaxPageSize   int
	LookupTTL     time.Duration
	Policy        domain.TransitionPolicy
}

// WarrantyService 保函生命周期：客户创建、公开查询、列表统计、管理员改状态
type WarrantyService struct {
	repo      domain.WarrantyRepository
	numbers   *domain.NumberGenerator
	policy    domain.TransitionPolicy
	cache     LookupCache
	lookupTTL time.Duration
	retries   int
	pageSize  int
	maxPage   int
	now       func() time.Time
	log       *zap.Logger
}

func NewWarrantyService(repo domain.WarrantyRepository, c LookupCache, opts WarrantyOptions, log *zap.Logger) *WarrantyService {
	if opts.Policy == nil {
		opts.Policy = domain.OpenTransitions()
	}
	if opts.NumberRetries < 1 {
		opts.NumberRetries = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.MaxPageSize < opts.PageSize {
		opts.MaxPageSize = opts.PageSize
	}
	if opts.LookupTTL <= 0 {
		opts.LookupTTL = 5 * time.Minute
	}
	return &WarrantyService{
		repo:      repo,
		numbers:   domain.NewNumberGenerator(opts.NumberPrefix),
		policy:    opts.Policy,
		cache:     c,
		lookupTTL: opts.LookupTTL,
		retries:   opts.NumberRetries,
		pageSize:  opts.PageSize,
		maxPage:   opts.MaxPageSize,
		now:       time.Now,
		log:       log,
	}
}

// Create 客户提交申请；编号冲突时重新生成，最多 retries 次
func (s *WarrantyService) Create(ctx context.Context, a domain.Actor, in domain.CreateWarrantyInput) (*domain.Warranty, error) {
	if !a.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if a.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	w, err := in.Draft()
	if err != nil {
		return nil, err
	}
	w.ID = utils.NewID()
	w.ClientID = a.ID
	if err := w.CheckWritable(); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		w.WarrantyNumber = s.numbers.Next()
		err = s.repo.Create(ctx, w)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		if attempt >= s.retries {
			return nil, domain.StoreFailure("allocate warranty number", err)
		}
		numberConflicts.Inc()
		s.log.Warn("warranty number collision, retrying",
			zap.String("number", w.WarrantyNumber), zap.Int("attempt", attempt))
	}

	warrantiesCreated.Inc()
	s.log.Info("warranty created",
		zap.String("warranty_id", w.ID),
		zap.String("number", w.WarrantyNumber),
		zap.String("client_id", w.ClientID))
	return w, nil
}

// Lookup 按编号公开查询（区分大小写，去首尾空白）；不需要登录
func (s *WarrantyService) Lookup(ctx context.Context, number string) (*domain.PublicWarranty, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.Invalid("number", "required")
	}
	// 格式不对的编号不可能存在，不查库也不占缓存
	if !s.numbers.WellFormed(number) {
		lookups.WithLabelValues("not_found").Inc()
		return nil, domain.ErrNotFound
	}
	load := func(ctx context.Context) (*domain.PublicWarranty, error) {
		w, err := s.repo.FindByNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		p := w.Public()
		return &p, nil
	}

	var (
		p   *domain.PublicWarranty
		err error
	)
	if s.cache != nil {
		p, err = cache.GetOrLoadJSON(s.cache, ctx, cache.LookupKey(number), s.lookupTTL, load)
	} else {
		p, err = load(ctx)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		lookups.WithLabelValues("not_found").Inc()
		return nil, domain.ErrNotFound
	case err != nil:
		lookups.WithLabelValues("error").Inc()
		if !errors.Is(err, domain.ErrStore) {
			err = domain.StoreFailure("lookup warranty", err)
		}
		return nil, err
	case p == nil:
		lookups.WithLabelValues("not_found").Inc()
		return nil, domain.ErrNotFound
	}
	lookups.WithLabelValues("found").Inc()
	return p, nil
}

// Get 归属者或管理员查看详情；他人的记录按不存在处理
func (s *WarrantyService) Get(ctx context.Context, a domain.Actor, id string) (*domain.Warranty, error) {
	if !a.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.VisibleTo(a) {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

// ListMine 当前用户自己的保函
func (s *WarrantyService) ListMine(ctx context.Context, a domain.Actor, f domain.Filter, p domain.Page) (domain.WarrantyList, error) {
	if !a.Authenticated() {
		return domain.WarrantyList{}, domain.ErrUnauthenticated
	}
	return s.repo.List(ctx, domain.WarrantyQuery{
		OwnerID: a.ID,
		Filter:  f,
		Page:    p.Clamp(s.pageSize, s.maxPage),
	})
}

// ListAll 全量列表（带归属人），仅管理员
func (s *WarrantyService) ListAll(ctx context.Context, a domain.Actor, f domain.Filter, p domain.Page) (domain.WarrantyList, error) {
	if err := requireAdmin(a); err != nil {
		return domain.WarrantyList{}, err
	}
	return s.repo.List(ctx, domain.WarrantyQuery{
		Filter:    f,
		Page:      p.Clamp(s.pageSize, s.maxPage),
		WithOwner: true,
	})
}

// Stats all=true 统计全部（仅管理员），否则只统计自己的
func (s *WarrantyService) Stats(ctx context.Context, a domain.Actor, all bool) (domain.Stats, error) {
	if all {
		if err := requireAdmin(a); err != nil {
			return domain.Stats{}, err
		}
		return s.repo.CountByStatus(ctx, "")
	}
	if !a.Authenticated() {
		return domain.Stats{}, domain.ErrUnauthenticated
	}
	return s.repo.CountByStatus(ctx, a.ID)
}

// SetStatus 管理员改状态：后写覆盖，刷新 updated_at，并把新状态写穿到公开查询缓存
func (s *WarrantyService) SetStatus(ctx context.Context, a domain.Actor, id string, to domain.Status) (*domain.Warranty, error) {
	if !a.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if !s.policy.CanTransition(a.Role) {
		return nil, domain.ErrForbidden
	}
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := w.Status
	if err := s.policy.Check(a, from, to); err != nil {
		return nil, err
	}
	at := s.now()
	if err := s.repo.UpdateStatus(ctx, id, to, at); err != nil {
		return nil, err
	}
	w.Status, w.UpdatedAt = to, at

	s.refreshLookup(ctx, w)
	statusTransitions.WithLabelValues(string(from), string(to)).Inc()
	s.log.Info("warranty status changed",
		zap.String("warranty_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("by", a.ID))
	return w, nil
}

// refreshLookup 覆盖写入最新公开视图，使回源中的旧读无法再落入缓存；写失败退化为删除
func (s *WarrantyService) refreshLookup(ctx context.Context, w *domain.Warranty) {
	if s.cache == nil {
		return
	}
	key := cache.LookupKey(w.WarrantyNumber)
	p := w.Public()
	err := cache.SetJSON(s.cache, ctx, key, s.lookupTTL, &p)
	if err == nil {
		return
	}
	s.log.Warn("refresh lookup cache failed", zap.String("number", w.WarrantyNumber), zap.Error(err))
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("evict lookup cache failed", zap.String("number", w.WarrantyNumber), zap.Error(err))
	}
}

func requireAdmin(a domain.Actor) error {
	if !a.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if !a.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
