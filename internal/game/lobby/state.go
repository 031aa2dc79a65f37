package lobby

// Phase 房间状态
type Phase int

const (
	PhaseWaiting  Phase = iota // 等待对手
	PhasePlaying               // 对局中
	PhaseFinished              // 已结束（随即从注册表删除）
)

var phaseNames = map[Phase]string{
	PhaseWaiting:  "waiting",
	PhasePlaying:  "playing",
	PhaseFinished: "finished",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}
