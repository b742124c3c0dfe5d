package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "development", cfg.Server.Environment)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "pharmatally_db", cfg.DB.Name)
	assert.Equal(t, "disable", cfg.DB.SSLMode)

	assert.Equal(t, "eu-central-1", cfg.S3.Region)
	assert.Equal(t, "pharmatally-scans", cfg.S3.Bucket)
	assert.Equal(t, int64(20), cfg.S3.MaxFileSizeMB)

	assert.Equal(t, "azure", cfg.OCR.Primary.Provider)
	assert.Equal(t, "tr", cfg.OCR.Primary.Language)
	assert.Equal(t, "tesseract", cfg.OCR.Local.Provider)
	assert.Equal(t, "tur", cfg.OCR.Local.Language)
	assert.Equal(t, 2048, cfg.OCR.MaxImageDim)

	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PHARMATALLY_SERVER_PORT", ":9999")
	t.Setenv("PHARMATALLY_DB_HOST", "db.internal")
	t.Setenv("PHARMATALLY_DB_PORT", "5433")
	t.Setenv("PHARMATALLY_S3_BUCKET", "prod-scans")
	t.Setenv("PHARMATALLY_OCR_PRIMARY_ENDPOINT", "https://vision.example.com")
	t.Setenv("PHARMATALLY_OCR_PRIMARY_API_KEY", "secret")
	t.Setenv("PHARMATALLY_OCR_MAX_IMAGE_DIM", "1600")
	t.Setenv("PHARMATALLY_CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, "prod-scans", cfg.S3.Bucket)
	assert.Equal(t, "https://vision.example.com", cfg.OCR.Primary.Endpoint)
	assert.Equal(t, "secret", cfg.OCR.Primary.APIKey)
	assert.Equal(t, 1600, cfg.OCR.MaxImageDim)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Port)
}

func TestLoad_ExplicitPortBeatsPlatformPort(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("PHARMATALLY_SERVER_PORT", ":8081")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Server.Port)
}

func TestDBConfig_DSN(t *testing.T) {
	d := DBConfig{
		Host: "localhost", Port: 5432,
		User: "pharmatally", Password: "pw",
		Name: "pharmatally_db", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://pharmatally:pw@localhost:5432/pharmatally_db?sslmode=disable", d.DSN())
}

func TestOCRProviderConfig_Configured(t *testing.T) {
	assert.False(t, (&OCRProviderConfig{}).Configured())
	assert.True(t, (&OCRProviderConfig{Provider: "azure"}).Configured())
}
