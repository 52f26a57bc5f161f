package llm

import "strings"

// RoleUser / RoleModel: 대화 턴의 역할 값입니다.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage: 대화 히스토리 항목입니다.
// HasImage 가 true 인 턴은 텍스트 전용 히스토리 계약에서 제외된다.
type ChatMessage struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	HasImage bool   `json:"has_image,omitempty"`
}

// NormalizedRole: role 값을 user/model 둘 중 하나로 정규화합니다.
// assistant 등 외부 표기는 model 로 취급한다.
func (m ChatMessage) NormalizedRole() string {
	role := strings.ToLower(strings.TrimSpace(m.Role))
	switch role {
	case RoleModel, "assistant", "bot":
		return RoleModel
	default:
		return RoleUser
	}
}

// FilterTextOnly: 이미지 턴을 제외한 히스토리를 원래 순서대로 반환합니다.
func FilterTextOnly(history []ChatMessage) []ChatMessage {
	filtered := make([]ChatMessage, 0, len(history))
	for _, msg := range history {
		if msg.HasImage {
			continue
		}
		filtered = append(filtered, msg)
	}
	return filtered
}

// Usage: 토큰 사용량 정보를 담습니다.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ChatResult: LLM 응답과 사용량을 담습니다.
type ChatResult struct {
	Text  string
	Model string
	Usage Usage
}
