package domain

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

const DefaultNumberPrefix = "TG"

var numberDigits = regexp.MustCompile(`^\d{11}$`)

// NumberGenerator 编号 = 前缀 + 毫秒时间戳后 8 位 + 3 位随机数。
// 本身不保证唯一，依赖唯一索引 + 冲突重试。
type NumberGenerator struct {
	Prefix string
	Now    func() time.Time
	IntN   func(n int) int
}

func NewNumberGenerator(prefix string) *NumberGenerator {
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	return &NumberGenerator{Prefix: prefix, Now: time.Now, IntN: rand.Intn}
}

func (g *NumberGenerator) Next() string {
	ms := g.Now().UnixMilli() % 100_000_000
	return fmt.Sprintf("%s%08d%03d", g.Prefix, ms, g.IntN(1000))
}

// WellFormed 判断编号格式（前缀 + 11 位数字）
func (g *NumberGenerator) WellFormed(number string) bool {
	if len(number) <= len(g.Prefix) || number[:len(g.Prefix)] != g.Prefix {
		return false
	}
	return numberDigits.MatchString(number[len(g.Prefix):])
}
