package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, DriverMemory, cfg.Session.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.App.StoreDriver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestLoad_Invalida(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "x")
	t.Setenv("SESSION_DRIVER", "memcached")
	_, err = Load()
	assert.Error(t, err)
}

func TestDSN_EscapaContraseña(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "hotel", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/hotel?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
