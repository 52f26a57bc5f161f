package guard

import (
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/mtibben/confusables"
	"golang.org/x/text/unicode/norm"
)

// normalizeText: 매칭 전 입력을 정규화합니다.
// 이모지를 제거하고, homoglyph 를 skeleton 으로 치환한 뒤 NFKC 정규화합니다.
// 이모지나 닮은꼴 문자를 끼워 넣어 문구 매칭을 피하는 입력을 잡기 위한 전처리입니다.
func normalizeText(text string) string {
	if isASCIIOnly(text) {
		return stripControlChars(text)
	}

	cleaned := gomoji.RemoveEmojis(text)
	skeleton := confusables.Skeleton(cleaned)
	return stripControlChars(norm.NFKC.String(skeleton))
}

func isASCIIOnly(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func stripControlChars(text string) string {
	hasControl := false
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r) {
			hasControl = true
			break
		}
	}
	if !hasControl {
		return text
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r) {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// collapseSpaces: 연속 공백을 하나로 줄입니다. 문구 매칭은 단일 공백 기준이다.
func collapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
