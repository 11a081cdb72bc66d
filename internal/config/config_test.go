package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "00:00", cfg.ScanAt)
	assert.Equal(t, 10*time.Second, cfg.SendTimeout)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_RequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	_, err := Load()
	assert.Error(t, err)

	require.NoError(t, os.Unsetenv("BOT_TOKEN"))
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"SCHEDULER_TZ": "Mars/Olympus",
		"SCAN_AT":      "25:00",
		"STORE_DRIVER": "postgres",
		"SEND_TIMEOUT": "0s",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "123:abc")
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OWNER_ID", "42")
	t.Setenv("SCAN_AT", "08:30")
	t.Setenv("STORE_DRIVER", "mongo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.OwnerID)
	m, err := cfg.ScanMinutes()
	require.NoError(t, err)
	assert.Equal(t, 510, m)
}
