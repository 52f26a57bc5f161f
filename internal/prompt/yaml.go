package prompt

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAMLMapping 는 프롬프트 YAML 파일을 문자열 맵으로 로드한다.
func LoadYAMLMapping(fsys fs.FS, filePath string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt yaml: %w", err)
	}

	mapping := make(map[string]string, len(raw))
	for key, value := range raw {
		if value == nil {
			mapping[key] = ""
			continue
		}
		mapping[key] = fmt.Sprint(value)
	}
	return mapping, nil
}

// LoadYAMLDir 는 디렉터리의 프롬프트 YAML 들을 확장자를 뗀 이름별로 로드한다.
func LoadYAMLDir(fsys fs.FS, dir string) (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read prompt dir: %w", err)
	}

	prompts := make(map[string]map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := path.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		mapping, err := LoadYAMLMapping(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		prompts[strings.TrimSuffix(entry.Name(), ext)] = mapping
	}
	return prompts, nil
}

// Get 은 로드된 프롬프트 모음에서 이름으로 프롬프트 맵을 찾는다.
func Get(prompts map[string]map[string]string, name string, label string) (map[string]string, error) {
	if prompts == nil {
		return nil, fmt.Errorf("%s prompts not initialized", label)
	}
	promptMap, ok := prompts[name]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}
	return promptMap, nil
}

// Field 는 프롬프트 맵의 필수 필드를 가져온다. 비어 있으면 오류다.
func Field(data map[string]string, key string, label string) (string, error) {
	value, ok := data[key]
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("prompt field missing: %s", label)
	}
	return value, nil
}
