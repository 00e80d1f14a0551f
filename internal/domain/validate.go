package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误字段名使用 json 名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate 结构体 tag 校验，首个错误转换为 ValidationError
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) || len(fes) == 0 {
		return Invalid("", err.Error())
	}
	fe := fes[0]
	switch fe.Tag() {
	case "required":
		return Invalid(fe.Field(), "is required")
	case "email":
		return Invalid(fe.Field(), "must be a valid email")
	case "min":
		return Invalid(fe.Field(), "must be at least "+fe.Param()+" characters")
	case "max":
		return Invalid(fe.Field(), "must be at most "+fe.Param()+" characters")
	}
	return Invalid(fe.Field(), "failed "+fe.Tag())
}

// SignUpInput 自助注册
type SignUpInput struct {
	Email       string `json:"email" validate:"required,email,max=191"`
	Password    string `json:"password" validate:"required,max=72"`
	FullName    string `json:"fullName" validate:"required,max=128"`
	CompanyName string `json:"companyName" validate:"max=191"`
	Phone       string `json:"phone" validate:"max=32"`
}

func (in *SignUpInput) Normalize() {
	in.Email = NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Phone = strings.TrimSpace(in.Phone)
}

// Profile 构造待入库的 Profile（不含 ID / 密码 / 角色）
func (in *SignUpInput) Profile() *Profile {
	return &Profile{
		Email:       in.Email,
		FullName:    in.FullName,
		CompanyName: optional(in.CompanyName),
		Phone:       optional(in.Phone),
	}
}

// MaxValue 金额上限（列类型 numeric(14,2)）
var MaxValue = decimal.New(1, 12)

// CreateWarrantyInput 客户提交的保函申请。Status 会被忽略，新建一律 pending。
type CreateWarrantyInput struct {
	Type        string      `json:"type" validate:"required,max=128"`
	Beneficiary string      `json:"beneficiary" validate:"required,max=255"`
	Value       json.Number `json:"value" validate:"required"` // 数字或数字字符串
	StartDate   string      `json:"startDate" validate:"required"`
	EndDate     string      `json:"endDate" validate:"required"`
	Description string      `json:"description" validate:"max=4000"`
	Status      string      `json:"status"`
}

// Draft 校验并解析为待入库的 Warranty（未分配 ID / 编号 / 归属）
func (in CreateWarrantyInput) Draft() (*Warranty, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Beneficiary = strings.TrimSpace(in.Beneficiary)
	in.Value = json.Number(strings.TrimSpace(string(in.Value)))
	if err := Validate(in); err != nil {
		return nil, err
	}
	value, err := decimal.NewFromString(string(in.Value))
	if err != nil {
		return nil, Invalid("value", "must be a number")
	}
	if !value.IsPositive() {
		return nil, Invalid("value", "must be positive")
	}
	if !value.Equal(value.Round(2)) {
		return nil, Invalid("value", "at most 2 decimal places")
	}
	if value.GreaterThanOrEqual(MaxValue) {
		return nil, Invalid("value", "too large")
	}
	value = value.Round(2)
	start, err := ParseDate(in.StartDate)
	if err != nil {
		return nil, Invalid("startDate", fmt.Sprintf("must be a date (%s)", DateLayout))
	}
	end, err := ParseDate(in.EndDate)
	if err != nil {
		return nil, Invalid("endDate", fmt.Sprintf("must be a date (%s)", DateLayout))
	}
	if end.Before(start) {
		return nil, Invalid("endDate", "must not be before startDate")
	}
	return &Warranty{
		Type:        in.Type,
		Beneficiary: in.Beneficiary,
		Value:       value,
		StartDate:   start,
		EndDate:     end,
		Description: optional(in.Description),
		Status:      StatusPending,
	}, nil
}

// CheckWritable 写入边界的不变量：状态合法、金额非负、结束日不早于开始日
func (w *Warranty) CheckWritable() error {
	if !w.Status.Valid() {
		return Invalid("status", fmt.Sprintf("unknown status %q", w.Status))
	}
	if w.Value.IsNegative() {
		return Invalid("value", "must not be negative")
	}
	if w.Value.GreaterThanOrEqual(MaxValue) {
		return Invalid("value", "too large")
	}
	if w.EndDate.Before(w.StartDate) {
		return Invalid("endDate", "must not be before startDate")
	}
	return nil
}
