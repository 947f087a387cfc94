package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Equal(t, 60*time.Second, cfg.DurationRefreshInterval)
	assert.Equal(t, 24*time.Hour, cfg.ReminderScanInterval)
	assert.Equal(t, 7, cfg.ReminderLeadDays)
	assert.Equal(t, "operator", cfg.DefaultActor)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", ":9090",
		"-d", "postgres://test",
		"-m", "mail.example.com",
		"-p", "587",
		"-r", "120",
		"-s", "12",
		"-l", "3",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://test", cfg.DatabaseDSN)
	assert.Equal(t, "mail.example.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 120*time.Second, cfg.DurationRefreshInterval)
	assert.Equal(t, 12*time.Hour, cfg.ReminderScanInterval)
	assert.Equal(t, 3, cfg.ReminderLeadDays)
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	content := `{
		"endpoint_addr_http": ":7070",
		"database_dsn": "postgres://json",
		"smtp_host": "smtp.json.example",
		"smtp_port": 465,
		"smtp_username": "mailer",
		"smtp_password": "secret",
		"email_from": "shop@example.com",
		"company_name": "Json Tires",
		"default_actor": "robot",
		"duration_refresh_interval": "90s",
		"reminder_scan_interval": "6h",
		"reminder_lead_days": 5
	}`

	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	os.Args = []string{"testbin", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "smtp.json.example", cfg.SMTPHost)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "Json Tires", cfg.CompanyName)
	assert.Equal(t, "robot", cfg.DefaultActor)
	assert.Equal(t, 90*time.Second, cfg.DurationRefreshInterval)
	assert.Equal(t, 6*time.Hour, cfg.ReminderScanInterval)
	assert.Equal(t, 5, cfg.ReminderLeadDays)
}

func TestParseJson_NoFileFlagLeavesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
}
