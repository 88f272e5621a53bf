package provider

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/randalmurphal/sculpt/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider != model.DefaultProvider {
		t.Errorf("expected Provider=%q, got %q", model.DefaultProvider, cfg.Provider)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("expected Model='gemini-2.5-flash', got %q", cfg.Model)
	}
	if cfg.APIKey != "" {
		t.Errorf("expected empty APIKey, got %q", cfg.APIKey)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{Provider: "gemini"},
			wantErr: false,
		},
		{
			name:    "empty model is allowed",
			cfg:     Config{Provider: "openai", Model: ""},
			wantErr: false,
		},
		{
			name:    "missing provider",
			cfg:     Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("SCULPT_PROVIDER", "openai")
	t.Setenv("SCULPT_MODEL", "gpt-4o-mini")
	t.Setenv("SCULPT_API_KEY", "sk-test")
	t.Setenv("SCULPT_BASE_URL", "http://localhost:9999/v1")

	cfg := Config{}
	cfg.LoadFromEnv()

	if cfg.Provider != "openai" {
		t.Errorf("expected Provider='openai', got %q", cfg.Provider)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("expected Model='gpt-4o-mini', got %q", cfg.Model)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("expected APIKey='sk-test', got %q", cfg.APIKey)
	}
	if cfg.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("expected BaseURL override, got %q", cfg.BaseURL)
	}
}

func TestConfig_LoadFromEnv_NativeKey(t *testing.T) {
	t.Setenv("SCULPT_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "native-key")

	cfg := Config{Provider: "gemini"}
	cfg.LoadFromEnv()

	if cfg.APIKey != "native-key" {
		t.Errorf("expected native key fallback, got %q", cfg.APIKey)
	}
}

func TestConfig_LoadFromEnv_KeepsExisting(t *testing.T) {
	t.Setenv("SCULPT_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "ignored")

	cfg := Config{Provider: "openai", APIKey: "saved"}
	cfg.LoadFromEnv()

	if cfg.Provider != "openai" || cfg.APIKey != "saved" {
		t.Errorf("expected saved values to survive, got %+v", cfg)
	}
}

func TestConfig_ResolvedModel(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit model", Config{Provider: "gemini", Model: "gemini-2.5-pro"}, "gemini-2.5-pro"},
		{"gemini default", Config{Provider: "gemini"}, "gemini-2.5-flash"},
		{"openai default", Config{Provider: "openai"}, model.Default("openai")},
		{"unknown provider", Config{Provider: "nope"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolvedModel(); got != tt.want {
				t.Errorf("ResolvedModel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_WithMethods(t *testing.T) {
	base := Config{}

	cfg := base.WithProvider("openai").WithModel("gpt-4o").WithAPIKey("k")
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o" || cfg.APIKey != "k" {
		t.Errorf("With* methods failed: %+v", cfg)
	}
	if base != (Config{}) {
		t.Errorf("With* methods must not mutate the receiver, got %+v", base)
	}
}

func TestConfig_LogValue_RedactsKey(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("cfg", "config", Config{Provider: "gemini", APIKey: "super-secret"})

	out := buf.String()
	if strings.Contains(out, "super-secret") {
		t.Errorf("API key leaked into log output: %s", out)
	}
	if !strings.Contains(out, "api_key_set=true") {
		t.Errorf("expected api_key_set=true in %s", out)
	}
}
