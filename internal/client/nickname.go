package client

import (
	"fmt"
	"math/rand/v2"
)

// 昵称词库
var (
	adjectives = []string{
		"勇敢的", "聪明的", "快乐的", "神秘的", "酷炫的",
		"优雅的", "可爱的", "威武的", "沉稳的", "活泼的",
		"机智的", "潇洒的", "温柔的", "霸气的", "淡定的",
	}

	nouns = []string{
		"石头", "剪刀", "布", "熊猫", "老虎",
		"兔子", "狐狸", "海豚", "企鹅", "考拉",
		"柯基", "柴犬", "龙猫", "仓鼠", "水獭",
	}
)

// GenerateNickname 生成随机昵称
func GenerateNickname() string {
	adj := adjectives[rand.IntN(len(adjectives))]
	noun := nouns[rand.IntN(len(nouns))]
	return adj + noun
}

// GenerateLobbyName 生成随机房间名
func GenerateLobbyName() string {
	return fmt.Sprintf("%s的房间-%03d", nouns[rand.IntN(len(nouns))], rand.IntN(1000))
}
