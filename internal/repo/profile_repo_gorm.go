package repo

import (
	"context"

	"gorm.io/gorm"

	"techgarantias/internal/domain"
)

type ProfileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	return mapErr("create profile", r.db.WithContext(ctx).Create(p).Error)
}

func (r *ProfileRepo) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, mapErr("find profile", err)
	}
	return &p, nil
}

func (r *ProfileRepo) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).First(&p, "email = ?", email).Error; err != nil {
		return nil, mapErr("find profile", err)
	}
	return &p, nil
}

func (r *ProfileRepo) HasAdmin(ctx context.Context) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("role = ?", domain.RoleAdmin).Count(&n).Error
	if err != nil {
		return false, mapErr("count admins", err)
	}
	return n > 0, nil
}
