package guard

import "fmt"

// Match 는 입력에서 매칭된 규칙 하나를 나타낸다.
type Match struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Evaluation 는 입력 한 건에 대한 검사 결과다.
// Score 가 Threshold 이상이면 차단 대상이다.
type Evaluation struct {
	Score     float64 `json:"score"`
	Hits      []Match `json:"hits"`
	Threshold float64 `json:"threshold"`
}

func (e Evaluation) Blocked() bool {
	return e.Score >= e.Threshold
}

// BlockedError 는 가드에 걸려 거부된 입력을 나타내는 오류다.
type BlockedError struct {
	Score     float64
	Threshold float64
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("input blocked by content guard (score=%.2f, threshold=%.2f)", e.Score, e.Threshold)
}
