package domain

import "strings"

// Filter 列表筛选：状态精确匹配 + 关键字不区分大小写子串匹配
// （编号 / 受益人 / 归属人姓名 / 归属人公司）
type Filter struct {
	Status Status
	Search string
}

// ParseFilter status 为空或 "all" 表示不过滤
func ParseFilter(status, search string) (Filter, error) {
	f := Filter{Search: strings.ToLower(strings.TrimSpace(search))}
	if s := strings.TrimSpace(status); s != "" && s != "all" {
		st, err := ParseStatus(s)
		if err != nil {
			return Filter{}, err
		}
		f.Status = st
	}
	return f, nil
}

// LikeEscape SQL LIKE 的转义字符（各方言都支持 ESCAPE '!'）
const LikeEscape = "!"

// Pattern 供 SQL LIKE 使用的小写模式，转义通配符
func (f Filter) Pattern() string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(f.Search))) + "%"
}

func (f Filter) Matches(w *Warranty) bool {
	if f.Status != "" && w.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	fields := []string{w.WarrantyNumber, w.Beneficiary}
	if w.Owner != nil {
		fields = append(fields, w.Owner.FullName)
		if w.Owner.CompanyName != nil {
			fields = append(fields, *w.Owner.CompanyName)
		}
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// Apply 内存过滤，保持原顺序
func (f Filter) Apply(ws []Warranty) []Warranty {
	out := make([]Warranty, 0, len(ws))
	for i := range ws {
		if f.Matches(&ws[i]) {
			out = append(out, ws[i])
		}
	}
	return out
}

// Page offset/limit 分页
type Page struct {
	Offset int
	Limit  int
}

// Clamp 越界时回落到默认值
func (p Page) Clamp(def, max int) Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 || p.Limit > max {
		p.Limit = def
	}
	return p
}

// WarrantyQuery 列表查询条件；OwnerID 为空表示全量（仅管理员）
type WarrantyQuery struct {
	OwnerID   string
	Filter    Filter
	Page      Page
	WithOwner bool
}

type WarrantyList struct {
	Total int64      `json:"total"`
	Items []Warranty `json:"items"`
}
