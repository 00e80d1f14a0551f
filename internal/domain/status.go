package domain

import (
	"fmt"
	"strings"
)

// Status 保函生命周期状态
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusIssued    Status = "issued"
	StatusRejected  Status = "rejected"
)

// Statuses 全部合法状态（顺序即看板顺序）
var Statuses = []Status{StatusPending, StatusConfirmed, StatusIssued, StatusRejected}

var statusLabels = map[Status]string{
	StatusPending:   "Pendente",
	StatusConfirmed: "Confirmada",
	StatusIssued:    "Emitida",
	StatusRejected:  "Rejeitada",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label 面向终端用户的展示名
func (s Status) Label() string { return statusLabels[s] }

func (s Status) String() string { return string(s) }

// ParseStatus 严格解析（区分大小写，去首尾空白）
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", Invalid("status", fmt.Sprintf("unknown status %q", raw))
	}
	return s, nil
}
