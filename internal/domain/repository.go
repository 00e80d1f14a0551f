package domain

import (
	"context"
	"time"
)

// ProfileRepository 未命中返回 ErrNotFound，邮箱重复返回 ErrConflict
type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	HasAdmin(ctx context.Context) (bool, error)
}

// WarrantyRepository 未命中返回 ErrNotFound，编号重复返回 ErrConflict
type WarrantyRepository interface {
	Create(ctx context.Context, w *Warranty) error
	FindByID(ctx context.Context, id string) (*Warranty, error)
	FindByNumber(ctx context.Context, number string) (*Warranty, error)
	List(ctx context.Context, q WarrantyQuery) (WarrantyList, error)
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error
	CountByStatus(ctx context.Context, ownerID string) (Stats, error)
}
