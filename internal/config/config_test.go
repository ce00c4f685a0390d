package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 30, cfg.Trail.FPS)
	assert.Equal(t, "portfolio_session", cfg.Session.CookieName)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	yaml := `
server:
  port: "9090"
  mode: release
session:
  ttl: 30m
trail:
  fps: 24
  render_scale: 0.25
log:
  levels:
    web: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("PORTFOLIO_TRAIL_FPS", "50")
	t.Setenv("PORTFOLIO_ADMIN_PASSWORD", "hunter2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 50, cfg.Trail.FPS, "env overrides file")
	assert.Equal(t, 0.25, cfg.Trail.RenderScale)
	assert.Equal(t, "hunter2", cfg.Admin.Password)
	assert.Equal(t, "debug", cfg.Log.Levels["web"])
}

func TestLoadHonoursPortEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "3000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*AppConfig) {}},
		{name: "bad mode", mutate: func(c *AppConfig) { c.Server.Mode = "prod" }, wantErr: true},
		{name: "bad format", mutate: func(c *AppConfig) { c.Log.Format = "xml" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *AppConfig) { c.Session.TTL = 0 }, wantErr: true},
		{name: "fps too high", mutate: func(c *AppConfig) { c.Trail.FPS = 500 }, wantErr: true},
		{name: "scale above one", mutate: func(c *AppConfig) { c.Trail.RenderScale = 2 }, wantErr: true},
		{name: "no cookie", mutate: func(c *AppConfig) { c.Session.CookieName = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
