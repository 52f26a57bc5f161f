package gemini

import (
	"strings"

	"github.com/park285/ecofy-server-go/internal/llm"
)

// InlineData 는 요청에 실리는 base64 인코딩 데이터다.
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Part 는 콘텐츠 파트다. Text 와 InlineData 중 하나만 채워진다.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// Content 는 role 태그가 붙은 파트 묶음이다.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig 는 생성 파라미터다.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// Request 는 generateContent 요청 본문이다.
type Request struct {
	Contents          []Content        `json:"contents"`
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
}

// Response 는 재시도 정책을 통과한 최종 HTTP 응답이다.
// 429/404 이외의 상태는 성공 여부와 무관하게 그대로 전달되며,
// 호출자가 StatusCode 로 분기한다.
type Response struct {
	StatusCode int
	Model      string
	Attempts   int
	Text       string
	Usage      llm.Usage
	Body       []byte
}

// Succeeded 는 2xx 응답 여부다.
func (r *Response) Succeeded() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// envelope 는 generateContent 응답 포맷이다.
type envelope struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func (e envelope) text() string {
	if len(e.Candidates) == 0 {
		return ""
	}
	parts := e.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}

func (e envelope) usage() llm.Usage {
	return llm.Usage{
		InputTokens:  e.UsageMetadata.PromptTokenCount,
		OutputTokens: e.UsageMetadata.CandidatesTokenCount,
		TotalTokens:  e.UsageMetadata.TotalTokenCount,
	}
}

// BuildContents 는 히스토리와 현재 메시지를 시간순 role 태그 목록으로 변환한다.
// 이미지 턴은 호출 측에서 이미 걸러졌다고 가정하지만 한 번 더 제외한다.
func BuildContents(history []llm.ChatMessage, prompt string, image *InlineData) []Content {
	contents := make([]Content, 0, len(history)+1)
	for _, msg := range llm.FilterTextOnly(history) {
		contents = append(contents, Content{
			Role:  msg.NormalizedRole(),
			Parts: []Part{{Text: msg.Content}},
		})
	}

	parts := make([]Part, 0, 2)
	if prompt != "" {
		parts = append(parts, Part{Text: prompt})
	}
	if image != nil {
		parts = append(parts, Part{InlineData: image})
	}
	contents = append(contents, Content{Role: llm.RoleUser, Parts: parts})
	return contents
}
