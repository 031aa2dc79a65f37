package card

import (
	"fmt"
	"slices"
	"strings"
)

// Contains 手牌中是否有该牌
func Contains(hand []Value, v Value) bool {
	return slices.Contains(hand, v)
}

// RemoveOne 从手牌中移除一张指定的牌，返回新手牌
func RemoveOne(hand []Value, v Value) ([]Value, bool) {
	idx := slices.Index(hand, v)
	if idx < 0 {
		return hand, false
	}
	return slices.Delete(slices.Clone(hand), idx, idx+1), true
}

// Counts 统计每种牌的数量
func Counts(cards []Value) map[Value]int {
	counts := make(map[Value]int, len(cycle))
	for _, c := range cards {
		counts[c]++
	}
	return counts
}

// FormatHand 格式化手牌，用于日志
func FormatHand(cards []Value) string {
	counts := Counts(cards)
	parts := make([]string, 0, len(cycle))
	for _, v := range cycle {
		parts = append(parts, fmt.Sprintf("%s×%d", v, counts[v]))
	}
	return strings.Join(parts, " ")
}
