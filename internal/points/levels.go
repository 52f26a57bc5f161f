package points

// LevelInfo 는 누적 포인트에서 파생된 레벨 상태다.
type LevelInfo struct {
	Level           int     `json:"level"`
	Title           string  `json:"title"`
	CurrentPoints   int     `json:"currentPoints"`
	NextLevelPoints int     `json:"nextLevelPoints"`
	Progress        float64 `json:"progress"`
}

type levelTier struct {
	minPoints int
	title     string
}

// 레벨 경계값은 하한 포함이다. 경계값 도달 시 즉시 해당 레벨이 된다.
var levelTiers = []levelTier{
	{0, "Eco Beginner"},
	{100, "Green Starter"},
	{300, "Eco Warrior"},
	{600, "Earth Guardian"},
	{1000, "Nature Champion"},
	{1500, "Planet Protector"},
	{2500, "Sustainability Master"},
	{4000, "Eco Legend"},
	{6000, "Green Hero"},
	{10000, "Planet Savior"},
}

// 최고 레벨 이후 다음 목표는 현재 하한에 고정 증분을 더한 값이다.
const topLevelIncrement = 5000

// CalculateLevel 는 누적 포인트를 레벨 정보로 변환한다. 음수는 0으로 취급한다.
func CalculateLevel(totalPoints int) LevelInfo {
	if totalPoints < 0 {
		totalPoints = 0
	}

	idx := 0
	for i, tier := range levelTiers {
		if totalPoints >= tier.minPoints {
			idx = i
		}
	}

	tier := levelTiers[idx]
	next := tier.minPoints + topLevelIncrement
	if idx+1 < len(levelTiers) {
		next = levelTiers[idx+1].minPoints
	}

	// 진행률은 표시용 값이라 [0,1] 로 고정한다. 최고 레벨 목표를 넘겨도 1 에 머문다.
	span := next - tier.minPoints
	progress := float64(totalPoints-tier.minPoints) / float64(span)
	if progress > 1 {
		progress = 1
	}

	return LevelInfo{
		Level:           idx + 1,
		Title:           tier.title,
		CurrentPoints:   totalPoints,
		NextLevelPoints: next,
		Progress:        progress,
	}
}
