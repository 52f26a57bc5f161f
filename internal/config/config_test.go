package config

import "testing"

func TestParseAPIKeys(t *testing.T) {
	t.Setenv("GOOGLE_API_KEYS", "k1, k2")
	keys := parseAPIKeys()
	if len(keys) != 2 || keys[0] != "k1" || keys[1] != "k2" {
		t.Fatalf("unexpected keys: %+v", keys)
	}

	t.Setenv("GOOGLE_API_KEYS", "")
	t.Setenv("GOOGLE_API_KEY", "single")
	keys = parseAPIKeys()
	if len(keys) != 1 || keys[0] != "single" {
		t.Fatalf("unexpected single key: %+v", keys)
	}
}

func TestParseModels(t *testing.T) {
	t.Setenv("GEMINI_MODELS", "gemini-2.0-flash-exp, gemini-1.5-flash")
	models := parseModels()
	if len(models) != 2 || models[0] != "gemini-2.0-flash-exp" {
		t.Fatalf("unexpected models: %+v", models)
	}

	t.Setenv("GEMINI_MODELS", "")
	models = parseModels()
	if len(models) != 3 {
		t.Fatalf("expected default candidate list, got: %+v", models)
	}
}

func TestSplitList(t *testing.T) {
	items := splitList("a,b c\td\n")
	if len(items) != 4 {
		t.Fatalf("unexpected list length: %d", len(items))
	}
}

func TestMaxAttempts(t *testing.T) {
	cfg := GeminiConfig{Models: []string{"m1", "m2", "m3"}, MaxRetries: 3}
	if cfg.MaxAttempts() != 9 {
		t.Fatalf("unexpected attempt bound: %d", cfg.MaxAttempts())
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Gemini: GeminiConfig{MaxRetries: 3, TimeoutSeconds: 30}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for empty model list")
	}

	cfg = &Config{Gemini: GeminiConfig{
		Models:         []string{"gemini-1.5-flash"},
		MaxRetries:     0,
		TimeoutSeconds: 30,
	}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for zero retries")
	}

	cfg = &Config{Gemini: GeminiConfig{
		Models:          []string{"gemini-1.5-flash"},
		MaxRetries:      3,
		TimeoutSeconds:  30,
		ChatTemperature: 0.9,
	}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, Name: "ecofy", User: "ecofy", Password: "pw"}
	dsn := cfg.DSN()
	if dsn != "postgresql://ecofy:pw@db:5432/ecofy" {
		t.Fatalf("unexpected dsn: %s", dsn)
	}
}

func TestMaskSecret(t *testing.T) {
	if maskSecret("") != "<missing>" {
		t.Fatalf("expected missing marker")
	}
	if maskSecret("abcdef") != "ab***ef" {
		t.Fatalf("unexpected mask: %s", maskSecret("abcdef"))
	}
}
