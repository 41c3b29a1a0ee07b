package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnv(t *testing.T) {
	t.Setenv("X_A", "va")
	in := []byte("a: ${X_A:da}\nb: ${X_B:db}\nc: ${X_C}")
	out := string(resolveEnv(in))
	assert.Contains(t, out, "a: va")
	assert.Contains(t, out, "b: db")
	assert.True(t, strings.HasSuffix(out, "c: "))
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  host: 127.0.0.1\n"))
	require.NoError(t, err)

	assert.Equal(t, 5235, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "data/lokal.db", cfg.Database.DBName)
	assert.Equal(t, "memory", cfg.History.Type)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, cfg.AI.Model, cfg.AI.SearchModel)
	assert.Equal(t, DefaultTestBusinessIDs(), cfg.Catalog.TestBusinessIDs)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "en", cfg.I18n.DefaultLang)
}

func TestParse_SuperAdminsFromEnv(t *testing.T) {
	t.Setenv("LOKAL_SUPER_ADMINS", "owner@lokal.app, Ops@Lokal.app")
	cfg, err := Parse([]byte("auth:\n  super_admins: ${LOKAL_SUPER_ADMINS:}\n"))
	require.NoError(t, err)

	assert.Equal(t, StringList{"owner@lokal.app", "Ops@Lokal.app"}, cfg.Auth.SuperAdmins)
	assert.True(t, cfg.Auth.IsSuperAdmin("ops@lokal.app"))
	assert.False(t, cfg.Auth.IsSuperAdmin("someone@else.com"))
	assert.False(t, cfg.Auth.IsSuperAdmin(""))
}

func TestParse_SequenceList(t *testing.T) {
	cfg, err := Parse([]byte("catalog:\n  mock_data: true\n  test_business_ids:\n    - a\n    - ' '\n    - b\n"))
	require.NoError(t, err)
	assert.Equal(t, StringList{"a", "b"}, cfg.Catalog.TestBusinessIDs)
	assert.Nil(t, cfg.Catalog.ExcludedBusinessIDs())

	cfg.Catalog.MockData = false
	assert.Equal(t, []string{"a", "b"}, cfg.Catalog.ExcludedBusinessIDs())
}

func TestValidate(t *testing.T) {
	_, err := Parse([]byte("history:\n  type: disk\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("ai:\n  provider: claude\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("database:\n  type: oracle\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("prefs:\n  type: redis\n"))
	assert.ErrorContains(t, err, "redis.addr")

	_, err = Parse([]byte("prefs:\n  type: redis\nredis:\n  addr: localhost:6379\n"))
	assert.NoError(t, err)
}

func TestLoadConfig(t *testing.T) {
	tmp := t.TempDir()
	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })
	_ = os.Chdir(tmp)

	t.Setenv("LOKAL_DB_NAME", "lokal")
	yaml := `
server:
  port: 8080
database:
  type: postgres
  host: db
  port: 5432
  user: lokal
  password: secret
  dbname: ${LOKAL_DB_NAME:other}
ai:
  provider: openai
  model: gpt-4o-mini
`
	require.NoError(t, os.MkdirAll("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "lokal.yaml"), []byte(yaml), 0o644))

	cfg, path, err := LoadConfig("lokal.yaml")
	require.NoError(t, err)
	assert.Contains(t, path, filepath.Join("configs", "lokal.yaml"))
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres://lokal:secret@db:5432/lokal?sslmode=disable", cfg.Database.GetDSN())
	assert.Equal(t, "gpt-4o-mini", cfg.AI.SearchModel)

	_, _, err = LoadConfig("missing.yaml")
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	mysql := DatabaseConfig{Type: "mysql", User: "u", Password: "p", Host: "h", Port: 3306, DBName: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=Local", mysql.GetDSN())

	sqlite := DatabaseConfig{Type: "sqlite", DBName: "data/x.db"}
	assert.Equal(t, "data/x.db", sqlite.GetDSN())

	unknown := DatabaseConfig{Type: "oracle"}
	assert.Empty(t, unknown.GetDSN())
}

func TestParse_ShippedConfig(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "configs", "lokal.yaml"))
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "memory", cfg.History.Type)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWT.Duration)
	assert.GreaterOrEqual(t, len(cfg.Auth.JWT.SecretKey), 32)
	require.NotNil(t, cfg.Server.CORS)
	assert.Contains(t, cfg.Server.CORS.AllowMethods, "PATCH")
	assert.False(t, cfg.Auth.OAuth.Google.Enabled())
}
