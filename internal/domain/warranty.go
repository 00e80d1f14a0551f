package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warranty 保函申请；编号全局唯一且创建后不可变
type Warranty struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	ClientID       string          `gorm:"size:36;index;not null" json:"clientId"`
	Owner          *Profile        `gorm:"foreignKey:ClientID;references:ID" json:"owner,omitempty"`
	WarrantyNumber string          `gorm:"uniqueIndex;size:32;not null" json:"warrantyNumber"`
	Beneficiary    string          `gorm:"size:255;not null" json:"beneficiary"`
	Value          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"value"`
	StartDate      Date            `gorm:"not null" json:"startDate"`
	EndDate        Date            `gorm:"not null" json:"endDate"`
	Status         Status          `gorm:"size:16;index;not null;default:pending" json:"status"`
	Type           string          `gorm:"size:128;not null" json:"type"`
	Description    *string         `gorm:"type:text" json:"description"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Warranty) TableName() string { return "warranties" }

// OwnedBy 行级归属判断
func (w *Warranty) OwnedBy(a Actor) bool { return a.Authenticated() && w.ClientID == a.ID }

// VisibleTo 归属者或管理员可见
func (w *Warranty) VisibleTo(a Actor) bool { return a.IsAdmin() || w.OwnedBy(a) }

// PublicWarranty 公开查询视图：不含内部 ID / 归属人信息
type PublicWarranty struct {
	WarrantyNumber string          `json:"warrantyNumber"`
	Beneficiary    string          `json:"beneficiary"`
	Value          decimal.Decimal `json:"value"`
	StartDate      Date            `json:"startDate"`
	EndDate        Date            `json:"endDate"`
	Status         Status          `json:"status"`
	StatusLabel    string          `json:"statusLabel"`
	Type           string          `json:"type"`
	Description    *string         `json:"description"`
}

func (w *Warranty) Public() PublicWarranty {
	return PublicWarranty{
		WarrantyNumber: w.WarrantyNumber,
		Beneficiary:    w.Beneficiary,
		Value:          w.Value,
		StartDate:      w.StartDate,
		EndDate:        w.EndDate,
		Status:         w.Status,
		StatusLabel:    w.Status.Label(),
		Type:           w.Type,
		Description:    w.Description,
	}
}

// Stats 看板计数
type Stats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Issued    int64 `json:"issued"`
	Rejected  int64 `json:"rejected"`
}

// Add 按状态累加
func (s *Stats) Add(status Status, n int64) {
	switch status {
	case StatusPending:
		s.Pending += n
	case StatusConfirmed:
		s.Confirmed += n
	case StatusIssued:
		s.Issued += n
	case StatusRejected:
		s.Rejected += n
	default:
		return
	}
	s.Total += n
}
