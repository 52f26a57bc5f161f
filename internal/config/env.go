package config

import (
	"os"
	"strconv"
	"strings"
)

// lookupEnv 는 공백을 제거한 환경변수 값과 존재 여부를 돌려준다.
func lookupEnv(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func parseAPIKeys() []string {
	if keys, ok := lookupEnv("GOOGLE_API_KEYS"); ok {
		return splitList(keys)
	}
	if key, ok := lookupEnv("GOOGLE_API_KEY"); ok {
		return []string{key}
	}
	return nil
}

func parseModels() []string {
	value, ok := lookupEnv("GEMINI_MODELS")
	if !ok {
		return []string{"gemini-2.0-flash-exp", "gemini-1.5-flash", "gemini-1.5-flash-8b"}
	}
	return splitList(value)
}

// splitList 는 쉼표/공백 구분 목록을 항목별로 자른다.
func splitList(value string) []string {
	items := strings.FieldsFunc(value, func(r rune) bool {
		switch r {
		case ',', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	result := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func getEnvString(key string, def string) string {
	if value, ok := lookupEnv(key); ok {
		return value
	}
	return def
}

func getEnvInt(key string, def int) int {
	value, ok := lookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvNonNegativeInt(key string, def int) int {
	if value := getEnvInt(key, def); value > 0 {
		return value
	}
	return 0
}

func getEnvFloat(key string, def float64) float64 {
	value, ok := lookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	value, ok := lookupEnv(key)
	if !ok {
		return def
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

func maskSecret(value string) string {
	switch {
	case value == "":
		return "<missing>"
	case len(value) <= 4:
		return strings.Repeat("*", len(value))
	}
	return value[:2] + "***" + value[len(value)-2:]
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
