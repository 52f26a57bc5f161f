package analysis

import "strings"

// Category 는 처리 방법 분류다.
type Category string

const (
	CategoryReuse   Category = "reuse"
	CategoryUpcycle Category = "upcycle"
	CategoryRecycle Category = "recycle"
	CategoryDispose Category = "dispose"
)

// ParseCategory 는 모델 출력의 category 값을 정규화한다.
func ParseCategory(value string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case CategoryReuse:
		return CategoryReuse, true
	case CategoryUpcycle:
		return CategoryUpcycle, true
	case CategoryRecycle:
		return CategoryRecycle, true
	case CategoryDispose:
		return CategoryDispose, true
	}
	return "", false
}

// ReuseGuide 는 재사용 안내다.
type ReuseGuide struct {
	Ideas                []string `json:"ideas"`
	Difficulty           string   `json:"difficulty"`
	TimeNeeded           string   `json:"timeNeeded"`
	EnvironmentalBenefit string   `json:"environmentalBenefit"`
}

// RecycleGuide 는 재활용 안내다.
type RecycleGuide struct {
	Instructions []string `json:"instructions"`
	SafetyTips   []string `json:"safetyTips"`
	DoNot        []string `json:"doNot"`
	CanRecycle   bool     `json:"canRecycle"`
}

// WasteAnalysis 는 촬영한 물건에 대한 분류 결과 값 객체다.
// 생성 이후 불변으로 취급한다.
type WasteAnalysis struct {
	ItemName    string       `json:"itemName"`
	Material    string       `json:"material"`
	Category    Category     `json:"category"`
	Confidence  float64      `json:"confidence"`
	Reuse       ReuseGuide   `json:"reuse"`
	Recycle     RecycleGuide `json:"recycle"`
	CarbonSaved string       `json:"carbonSaved"`
	FunFact     string       `json:"funFact"`
}

// Validate 는 모든 필드가 채워진 완전한 형태인지 검사한다.
// 불완전한 응답은 폴백으로 대체되므로 호출자에게 부분 값이 새지 않는다.
func (w WasteAnalysis) Validate() error {
	if strings.TrimSpace(w.ItemName) == "" {
		return errMissing("itemName")
	}
	if strings.TrimSpace(w.Material) == "" {
		return errMissing("material")
	}
	if _, ok := ParseCategory(string(w.Category)); !ok {
		return errMissing("category")
	}
	if w.Confidence < 0 || w.Confidence > 1 {
		return errMissing("confidence")
	}
	if len(w.Reuse.Ideas) == 0 {
		return errMissing("reuse.ideas")
	}
	if !validDifficulty(w.Reuse.Difficulty) {
		return errMissing("reuse.difficulty")
	}
	if strings.TrimSpace(w.Reuse.TimeNeeded) == "" {
		return errMissing("reuse.timeNeeded")
	}
	if strings.TrimSpace(w.Reuse.EnvironmentalBenefit) == "" {
		return errMissing("reuse.environmentalBenefit")
	}
	if len(w.Recycle.Instructions) == 0 {
		return errMissing("recycle.instructions")
	}
	if strings.TrimSpace(w.CarbonSaved) == "" {
		return errMissing("carbonSaved")
	}
	if strings.TrimSpace(w.FunFact) == "" {
		return errMissing("funFact")
	}
	return nil
}

func validDifficulty(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy", "medium", "hard":
		return true
	}
	return false
}

type fieldError struct{ field string }

func (e fieldError) Error() string { return "analysis field missing or invalid: " + e.field }

func errMissing(field string) error { return fieldError{field: field} }

// Result 는 분석 호출의 결과다. Fallback 이 true 면 Analysis 는 고정 폴백 값이고
// Cause 에 가려진 실패 원인이 남는다. 사용자에게는 항상 완전한 분석이 전달된다.
type Result struct {
	Analysis WasteAnalysis `json:"analysis"`
	Model    string        `json:"model,omitempty"`
	Fallback bool          `json:"fallback"`
	Cause    error         `json:"-"`
}
