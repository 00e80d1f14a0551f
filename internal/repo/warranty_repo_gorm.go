package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"techgarantias/internal/domain"
)

type WarrantyRepo struct{ db *gorm.DB }

func NewWarrantyRepo(db *gorm.DB) *WarrantyRepo { return &WarrantyRepo{db: db} }

func (r *WarrantyRepo) Create(ctx context.Context, w *domain.Warranty) error {
	return mapErr("create warranty", r.db.WithContext(ctx).Omit("Owner").Create(w).Error)
}

func (r *WarrantyRepo) FindByID(ctx context.Context, id string) (*domain.Warranty, error) {
	var w domain.Warranty
	if err := r.db.WithContext(ctx).Preload("Owner").First(&w, "id = ?", id).Error; err != nil {
		return nil, mapErr("find warranty", err)
	}
	return &w, nil
}

// FindByNumber 编号区分大小写（mysql 默认排序规则不区分，结果再比对一次）
func (r *WarrantyRepo) FindByNumber(ctx context.Context, number string) (*domain.Warranty, error) {
	var w domain.Warranty
	if err := r.db.WithContext(ctx).First(&w, "warranty_number = ?", number).Error; err != nil {
		return nil, mapErr("find warranty by number", err)
	}
	if w.WarrantyNumber != number {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

// List 筛选条件下推到 SQL；关键字需要 join profiles 匹配归属人姓名/公司
func (r *WarrantyRepo) List(ctx context.Context, q domain.WarrantyQuery) (domain.WarrantyList, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Warranty{})
	if q.OwnerID != "" {
		tx = tx.Where("warranties.client_id = ?", q.OwnerID)
	}
	if q.Filter.Status != "" {
		tx = tx.Where("warranties.status = ?", q.Filter.Status)
	}
	if q.Filter.Search != "" {
		like := q.Filter.Pattern()
		esc := " ESCAPE '" + domain.LikeEscape + "'"
		tx = tx.Joins("LEFT JOIN profiles ON profiles.id = warranties.client_id").
			Where("(LOWER(warranties.warranty_number) LIKE ?"+esc+
				" OR LOWER(warranties.beneficiary) LIKE ?"+esc+
				" OR LOWER(profiles.full_name) LIKE ?"+esc+
				" OR LOWER(COALESCE(profiles.company_name, '')) LIKE ?"+esc+")",
				like, like, like, like)
	}
	base := tx.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return domain.WarrantyList{}, mapErr("count warranties", err)
	}

	items := make([]domain.Warranty, 0)
	find := base.Select("warranties.*").
		Order("warranties.created_at DESC").Order("warranties.id DESC").
		Offset(q.Page.Offset).Limit(q.Page.Limit)
	if q.WithOwner {
		find = find.Preload("Owner")
	}
	if err := find.Find(&items).Error; err != nil {
		return domain.WarrantyList{}, mapErr("list warranties", err)
	}
	return domain.WarrantyList{Total: total, Items: items}, nil
}

// UpdateStatus 仅覆盖 status 与 updated_at（后写覆盖，无版本校验）
func (r *WarrantyRepo) UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Warranty{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": at})
	if res.Error != nil {
		return mapErr("update warranty status", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// mysql 值未变化时 RowsAffected 为 0，需再确认是否存在
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Warranty{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return mapErr("update warranty status", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WarrantyRepo) CountByStatus(ctx context.Context, ownerID string) (domain.Stats, error) {
	type row struct {
		Status domain.Status
		N      int64
	}
	var rows []row
	tx := r.db.WithContext(ctx).Model(&domain.Warranty{}).Select("status, COUNT(*) AS n").Group("status")
	if ownerID != "" {
		tx = tx.Where("client_id = ?", ownerID)
	}
	if err := tx.Scan(&rows).Error; err != nil {
		return domain.Stats{}, mapErr("count warranties by status", err)
	}
	var s domain.Stats
	for _, r := range rows {
		s.Add(r.Status, r.N)
	}
	return s, nil
}
