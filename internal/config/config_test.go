package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
[database]
host = "localhost"
port = 5432
user = "svc"
password = "svc"
dbname = "svc"
sslmode = "disable"

[ledger]
rpc_url = "https://rpc.example.com"
recipient_wallet = "Wallet111"

[calendar]
base_url = "https://calendar.example.com"
calendar_id = "primary"

[booking]
timezone = "Europe/Moscow"

[booking.monday]
open = "10:00"
close = "19:00"

[[meeting_types]]
name = "consultation"
duration_minutes = 60
price = 0.5
requires_payment = true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config with defaults applied", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, validConfig))

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.HTTPPort)
		assert.Equal(t, "finalized", cfg.Ledger.Finality)
		assert.Equal(t, 30, cfg.Booking.DefaultSlotMinutes)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)

		types := cfg.DomainMeetingTypes()
		require.Contains(t, types, "consultation")
		assert.Equal(t, 60, types["consultation"].DurationMinutes)
		assert.True(t, types["consultation"].RequiresPayment)
	})

	t.Run("working hours per weekday", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, validConfig))
		require.NoError(t, err)

		assert.True(t, cfg.Booking.HoursFor(time.Monday).IsOpen())
		assert.False(t, cfg.Booking.HoursFor(time.Sunday).IsOpen())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("missing recipient wallet", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
[database]
host = "localhost"

[ledger]
rpc_url = "https://rpc.example.com"

[calendar]
base_url = "https://calendar.example.com"
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recipient_wallet")
	})

	t.Run("paid meeting type without price", func(t *testing.T) {
		_, err := Load(writeConfig(t, validConfig+`
[[meeting_types]]
name = "broken"
duration_minutes = 30
requires_payment = true
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("duplicate meeting type", func(t *testing.T) {
		_, err := Load(writeConfig(t, validConfig+`
[[meeting_types]]
name = "consultation"
duration_minutes = 30
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("invalid timezone", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
[database]
host = "localhost"

[ledger]
rpc_url = "https://rpc.example.com"
recipient_wallet = "Wallet111"

[calendar]
base_url = "https://calendar.example.com"

[booking]
timezone = "Mars/Olympus"
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timezone")
	})
}
