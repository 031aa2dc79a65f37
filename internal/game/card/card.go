package card

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Value 定义牌面：石头、布、剪刀
type Value int

const (
	Rock     Value = iota // 石头
	Paper                 // 布
	Scissors              // 剪刀
)

// DefaultHandSize 每位玩家的手牌数
const DefaultHandSize = 15

// valueNames 牌面字符串映射表（同时也是线上协议的取值）
var valueNames = map[Value]string{
	Rock:     "rock",
	Paper:    "paper",
	Scissors: "scissors",
}

// cycle 发牌时的循环顺序
var cycle = [...]Value{Rock, Paper, Scissors}

func (v Value) String() string {
	if name, ok := valueNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Value(%d)", int(v))
}

// Valid 是否是合法牌面
func (v Value) Valid() bool {
	_, ok := valueNames[v]
	return ok
}

// Parse 解析牌面字符串（不区分大小写）
func Parse(s string) (Value, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, v := range cycle {
		if valueNames[v] == name {
			return v, nil
		}
	}
	return -1, fmt.Errorf("无法识别的牌面: %q", s)
}

// MarshalText 以字符串形式编码
func (v Value) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("无效的牌面: %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText 从字符串解码
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Deck 定义一副牌
type Deck []Value

// NewDeck 按石头、布、剪刀循环生成 2*handSize 张未洗的牌
func NewDeck(handSize int) Deck {
	if handSize < 0 {
		handSize = 0
	}
	deck := make(Deck, 2*handSize)
	for i := range deck {
		deck[i] = cycle[i%len(cycle)]
	}
	return deck
}

// Shuffle 均匀洗牌（Fisher-Yates）
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// GenerateDeck 生成一副洗好的牌
func GenerateDeck(handSize int) Deck {
	deck := NewDeck(handSize)
	deck.Shuffle()
	return deck
}

// Split 将牌分成两手：前 handSize 张给 0 号位，其余给 1 号位
func (d Deck) Split(handSize int) (first, second []Value) {
	handSize = min(max(handSize, 0), len(d))
	first = append([]Value(nil), d[:handSize]...)
	second = append([]Value(nil), d[handSize:]...)
	return first, second
}
