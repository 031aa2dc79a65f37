package card

// Outcome 单轮结果
type Outcome int

const (
	Draw       Outcome = iota // 平局
	FirstWins                 // 先手牌获胜
	SecondWins                // 后手牌获胜
)

var outcomeNames = map[Outcome]string{
	Draw:       "draw",
	FirstWins:  "player1",
	SecondWins: "player2",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// MarshalText 以字符串形式编码
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText 从字符串解码
func (o *Outcome) UnmarshalText(text []byte) error {
	for k, name := range outcomeNames {
		if name == string(text) {
			*o = k
			return nil
		}
	}
	*o = Draw
	return nil
}

// beats 克制关系：key 克制 value
var beats = map[Value]Value{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

// Beats 判断 a 是否克制 b
func Beats(a, b Value) bool {
	target, ok := beats[a]
	return ok && target == b
}

// Resolve 比较两张牌
func Resolve(a, b Value) Outcome {
	switch {
	case a == b:
		return Draw
	case Beats(a, b):
		return FirstWins
	default:
		return SecondWins
	}
}
