package points

import "github.com/park285/ecofy-server-go/internal/analysis"

// Reward 는 폐기물 처리 방식별 적립 포인트와 절감량이다.
type Reward struct {
	Points        int     `json:"points"`
	CarbonSavedKg float64 `json:"carbonSavedKg"`
}

var rewardTable = map[analysis.Category]Reward{
	analysis.CategoryReuse:   {Points: 50, CarbonSavedKg: 0.5},
	analysis.CategoryUpcycle: {Points: 75, CarbonSavedKg: 0.7},
	analysis.CategoryRecycle: {Points: 30, CarbonSavedKg: 0.3},
	analysis.CategoryDispose: {Points: 10, CarbonSavedKg: 0.1},
}

// RewardFor 는 분류 결과에 대한 보상을 반환한다.
// 알 수 없는 분류는 가장 보수적인 dispose 보상으로 처리한다.
func RewardFor(category analysis.Category) Reward {
	if r, ok := rewardTable[category]; ok {
		return r
	}
	return rewardTable[analysis.CategoryDispose]
}
