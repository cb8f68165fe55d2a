package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_CreatesMissingFileWithDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := NewLoader().Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if cfg.Discord.Prefix != "!" {
		t.Fatalf("expected default prefix, got %q", cfg.Discord.Prefix)
	}
	if cfg.UI.PaginateTimeout != 60 || cfg.UI.PageSize != 10 {
		t.Fatalf("unexpected ui defaults: %+v", cfg.UI)
	}
	if cfg.Player.QueueLimit != 25 {
		t.Fatalf("expected queue limit 25, got %d", cfg.Player.QueueLimit)
	}
}

func TestLoad_UsesConfigPathEnvWhenPathEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "from-env.json")

	seed := DefaultConfig()
	seed.UI.PickTimeout = 45
	if err := NewLoader().Save(cfgPath, seed); err != nil {
		t.Fatalf("save config: %v", err)
	}

	t.Setenv(ConfigPathEnv, cfgPath)

	got, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.UI.PickTimeout != 45 {
		t.Fatalf("expected pick timeout 45, got %d", got.UI.PickTimeout)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "config.json")

	seed := DefaultConfig()
	seed.Discord.Token = "from-file"
	if err := NewLoader().Save(cfgPath, seed); err != nil {
		t.Fatalf("save config: %v", err)
	}

	t.Setenv("TUNEBOT_DISCORD_TOKEN", "from-env")
	t.Setenv("TUNEBOT_PLAYER_QUEUE_LIMIT", "50")

	got, err := NewLoader().Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.Discord.Token != "from-env" {
		t.Fatalf("expected env token, got %q", got.Discord.Token)
	}
	if got.Player.QueueLimit != 50 {
		t.Fatalf("expected env queue limit 50, got %d", got.Player.QueueLimit)
	}
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	content := `discord:
  prefix: "?"
ui:
  paginate_timeout: 30
  colors:
    main: 255
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := NewLoader().Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.Discord.Prefix != "?" || got.UI.PaginateTimeout != 30 {
		t.Fatalf("file values not applied: prefix=%q timeout=%d", got.Discord.Prefix, got.UI.PaginateTimeout)
	}
	if got.UI.PickTimeout != 60 {
		t.Fatalf("expected default pick timeout, got %d", got.UI.PickTimeout)
	}
	if got.UI.Colors.Main != 255 {
		t.Fatalf("expected main color 255, got %d", got.UI.Colors.Main)
	}
	if got.UI.Theme().Colors.Error == 0 {
		t.Fatal("error color must fall back to the default theme")
	}
}

func TestLoad_RejectsMalformedFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(cfgPath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := NewLoader().Load(cfgPath); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestLoad_CreatesMissingYAMLFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	if _, err := NewLoader().Load(cfgPath); err != nil {
		t.Fatalf("first load: %v", err)
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read created config: %v", err)
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		t.Fatalf("expected YAML output, got JSON:\n%s", data)
	}

	got, err := NewLoader().Load(cfgPath)
	if err != nil {
		t.Fatalf("reload created YAML config: %v", err)
	}
	if got.Discord.Prefix != "!" {
		t.Fatalf("expected default prefix, got %q", got.Discord.Prefix)
	}
}

func TestLoad_SameLoaderSwitchesFormats(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "config.json")
	yamlPath := filepath.Join(dir, "config.yml")

	if err := os.WriteFile(jsonPath, []byte(`{"discord":{"prefix":"$"}}`), 0644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := os.WriteFile(yamlPath, []byte("discord:\n  prefix: \"%\"\n"), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	loader := NewLoader()
	fromYAML, err := loader.Load(yamlPath)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	fromJSON, err := loader.Load(jsonPath)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if fromYAML.Discord.Prefix != "%" || fromJSON.Discord.Prefix != "$" {
		t.Fatalf("unexpected prefixes: yaml=%q json=%q", fromYAML.Discord.Prefix, fromJSON.Discord.Prefix)
	}
}

func TestConfigFormat(t *testing.T) {
	tests := map[string]string{
		"config.yaml":  "yaml",
		"config.YML":   "yaml",
		"config.toml":  "toml",
		"config.json":  "json",
		"config":       "json",
		"settings.cfg": "json",
	}
	for path, want := range tests {
		if got := configFormat(path); got != want {
			t.Errorf("configFormat(%q) = %q, want %q", path, got, want)
		}
	}
}
