package domain

import "fmt"

// TransitionPolicy 按角色的状态迁移白名单：role -> from -> 允许的 to
type TransitionPolicy map[Role]map[Status][]Status

// OpenTransitions 管理员任意状态可互转（含自环，保证重复提交幂等）；客户无权迁移
func OpenTransitions() TransitionPolicy {
	all := make(map[Status][]Status, len(Statuses))
	for _, from := range Statuses {
		all[from] = append([]Status(nil), Statuses...)
	}
	return TransitionPolicy{RoleAdmin: all}
}

func (p TransitionPolicy) Allows(role Role, from, to Status) bool {
	for _, s := range p[role][from] {
		if s == to {
			return true
		}
	}
	return false
}

// Check 校验 actor 能否把状态从 from 改为 to
func (p TransitionPolicy) Check(a Actor, from, to Status) error {
	if !a.Authenticated() {
		return ErrUnauthenticated
	}
	if _, ok := p[a.Role]; !ok {
		return ErrForbidden
	}
	if !to.Valid() {
		return Invalid("status", fmt.Sprintf("unknown status %q", to))
	}
	if !p.Allows(a.Role, from, to) {
		return Invalid("status", fmt.Sprintf("transition %s -> %s not allowed", from, to))
	}
	return nil
}

// CanTransition 该角色是否有任何迁移权限（用于在读取记录前拒绝）
func (p TransitionPolicy) CanTransition(role Role) bool { return len(p[role]) > 0 }
