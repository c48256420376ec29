package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.BaseURL != "https://pokeapi.co/api/v2" {
		t.Errorf("default base url = %q, want %q", cfg.API.BaseURL, "https://pokeapi.co/api/v2")
	}
	if cfg.API.PageSize != 20 {
		t.Errorf("default page size = %d, want 20", cfg.API.PageSize)
	}
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("default timeout = %v, want %v", cfg.HTTP.Timeout, 10*time.Second)
	}
	if cfg.Cache.MaxEntries != 0 {
		t.Errorf("default cache.max_entries = %d, want 0 (unbounded)", cfg.Cache.MaxEntries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	cfgPath := writeConfig(t, `
api:
  base_url: http://localhost:8000/api/v2
  page_size: 12
http:
  timeout: 3s
cache:
  max_entries: 256
log:
  level: debug
  file: /tmp/pokedex.log
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api/v2" {
		t.Errorf("base url = %q, want %q", cfg.API.BaseURL, "http://localhost:8000/api/v2")
	}
	if cfg.API.PageSize != 12 {
		t.Errorf("page size = %d, want 12", cfg.API.PageSize)
	}
	if cfg.HTTP.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want %v", cfg.HTTP.Timeout, 3*time.Second)
	}
	if cfg.Cache.MaxEntries != 256 {
		t.Errorf("max entries = %d, want 256", cfg.Cache.MaxEntries)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/pokedex.log" {
		t.Errorf("log = %+v, want debug to /tmp/pokedex.log", cfg.Log)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfgPath := writeConfig(t, "{{invalid yaml")

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	cfgPath := writeConfig(t, `
api:
  page_size: 30
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.PageSize != 30 {
		t.Errorf("page size = %d, want 30", cfg.API.PageSize)
	}
	if cfg.API.BaseURL != DefaultConfig().API.BaseURL {
		t.Errorf("base url = %q, want default", cfg.API.BaseURL)
	}
}

func TestLoad_LayeredPriority(t *testing.T) {
	// Setup: user config sets base url and page size, project config overrides page size.
	userCfg := writeConfig(t, `
api:
  base_url: http://mirror.example/api/v2
  page_size: 10
`)
	projectCfg := writeConfig(t, `
api:
  page_size: 40
`)

	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	// Base URL from user config (project doesn't set it).
	if cfg.API.BaseURL != "http://mirror.example/api/v2" {
		t.Errorf("base url = %q, want %q", cfg.API.BaseURL, "http://mirror.example/api/v2")
	}
	// Page size from project config (overrides user).
	if cfg.API.PageSize != 40 {
		t.Errorf("page size = %d, want 40", cfg.API.PageSize)
	}
	// Timeout retains default when neither layer sets it.
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("timeout = %v, want default %v", cfg.HTTP.Timeout, 10*time.Second)
	}
}

func TestLoadLayered_InvalidLayer(t *testing.T) {
	good := writeConfig(t, "api:\n  page_size: 5\n")
	bad := writeConfig(t, "api: [")

	if _, err := LoadLayered(good, bad); err == nil {
		t.Fatal("LoadLayered() should fail on an unparsable layer")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "POKEDEX_BASE_URL overrides base url",
			envs: map[string]string{"POKEDEX_BASE_URL": "http://localhost:9/api/v2"},
			check: func(t *testing.T, c Config) {
				if c.API.BaseURL != "http://localhost:9/api/v2" {
					t.Errorf("base url = %q, want %q", c.API.BaseURL, "http://localhost:9/api/v2")
				}
			},
		},
		{
			name: "POKEDEX_PAGE_SIZE overrides page size",
			envs: map[string]string{"POKEDEX_PAGE_SIZE": "7"},
			check: func(t *testing.T, c Config) {
				if c.API.PageSize != 7 {
					t.Errorf("page size = %d, want 7", c.API.PageSize)
				}
			},
		},
		{
			name: "POKEDEX_TIMEOUT overrides timeout",
			envs: map[string]string{"POKEDEX_TIMEOUT": "30s"},
			check: func(t *testing.T, c Config) {
				if c.HTTP.Timeout != 30*time.Second {
					t.Errorf("timeout = %v, want %v", c.HTTP.Timeout, 30*time.Second)
				}
			},
		},
		{
			name: "POKEDEX_LOG_LEVEL and POKEDEX_LOG_FILE override log",
			envs: map[string]string{"POKEDEX_LOG_LEVEL": "warn", "POKEDEX_LOG_FILE": "/tmp/x.log"},
			check: func(t *testing.T, c Config) {
				if c.Log.Level != "warn" || c.Log.File != "/tmp/x.log" {
					t.Errorf("log = %+v, want warn to /tmp/x.log", c.Log)
				}
			},
		},
		{
			name:    "invalid POKEDEX_TIMEOUT returns error",
			envs:    map[string]string{"POKEDEX_TIMEOUT": "notaduration"},
			wantErr: true,
		},
		{
			name:    "invalid POKEDEX_PAGE_SIZE returns error",
			envs:    map[string]string{"POKEDEX_PAGE_SIZE": "twenty"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := cfg.ApplyEnv()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnv() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_UnknownField(t *testing.T) {
	cfgPath := writeConfig(t, `
api:
  page_sise: 20
`)

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() should return error for unknown field 'page_sise'")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "empty base url",
			modify:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "relative base url",
			modify:  func(c *Config) { c.API.BaseURL = "api/v2" },
			wantErr: true,
		},
		{
			name:    "zero page size",
			modify:  func(c *Config) { c.API.PageSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.HTTP.Timeout = -1 * time.Second },
			wantErr: true,
		},
		{
			name:    "negative cache size",
			modify:  func(c *Config) { c.Cache.MaxEntries = -1 },
			wantErr: true,
		},
		{
			name:    "bounded cache",
			modify:  func(c *Config) { c.Cache.MaxEntries = 100 },
			wantErr: false,
		},
		{
			name:   "upper case log level",
			modify: func(c *Config) { c.Log.Level = "DEBUG" },
		},
		{
			name:   "warning alias",
			modify: func(c *Config) { c.Log.Level = "warning" },
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	cfgPath := writeConfig(t, "# just a comment\n")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfgPath := writeConfig(t, "")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(empty) = %+v, want defaults %+v", *cfg, want)
	}
}
