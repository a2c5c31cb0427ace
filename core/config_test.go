package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENV", "")
		conf := NewConfig()
		assert.Equal(t, "DEV", conf.Env)
		assert.True(t, conf.Debug)
		assert.False(t, conf.TestMode)
		assert.Equal(t, ":8000", conf.Server.Address)
		assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)
		assert.Equal(t, "postgres", conf.Database.Engine)
		assert.Empty(t, conf.Tiers.File)
		assert.Equal(t, "StudyMate", conf.DefaultFromEmail.Name)
	})

	t.Run("env prefix", func(t *testing.T) {
		t.Setenv("ENV", "test")
		t.Setenv("TEST_DEBUG", "false")
		t.Setenv("TEST_DATABASE_ENGINE", "inmem")
		t.Setenv("TEST_SERVER_SHUTDOWNTIMEOUT", "1m")
		t.Setenv("TEST_TIERS_FILE", "config/tiers.yaml")
		t.Setenv("DEV_DATABASE_HOST", "ignored")

		conf := NewConfig()
		assert.Equal(t, "TEST", conf.Env)
		assert.True(t, conf.TestMode)
		assert.False(t, conf.Debug)
		assert.Equal(t, "inmem", conf.Database.Engine)
		assert.Equal(t, time.Minute, conf.Server.ShutdownTimeout)
		assert.Equal(t, "config/tiers.yaml", conf.Tiers.File)
		assert.NotEqual(t, "ignored", conf.Database.Host)
	})

	t.Run("prod requires a secret key", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		t.Setenv("PROD_SECRETKEY", "")

		_, err := newConfig()
		assert.Equal(t, ErrDefaultSecretKey, err)

		t.Setenv("PROD_SECRETKEY", defaultSecretKey)
		_, err = newConfig()
		assert.Equal(t, ErrDefaultSecretKey, err)

		t.Setenv("PROD_SECRETKEY", "s3cr3t")
		conf, err := newConfig()
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t", conf.SecretKey)
	})

	t.Run("default secret key outside prod", func(t *testing.T) {
		t.Setenv("ENV", "qa")
		conf, err := newConfig()
		require.NoError(t, err)
		assert.Equal(t, defaultSecretKey, conf.SecretKey)
	})
}

func TestDatabaseConfig_Address(t *testing.T) {
	assert.Equal(t, "db", databaseConfig{Host: "db"}.Address())
	assert.Equal(t, "db:5432", databaseConfig{Host: "db", Port: "5432"}.Address())
}

func TestNow(t *testing.T) {
	defer func() { nowFunc = time.Now }()
	loc := time.FixedZone("WAT", 3600)
	nowFunc = func() time.Time { return time.Date(2021, 3, 4, 5, 6, 7, 891011121, loc) }

	got := Now()
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2021, 3, 4, 4, 6, 7, 891011000, time.UTC), got)
}

func TestParseOrderings(t *testing.T) {
	tests := []struct {
		in   string
		want []DBOrdering
	}{
		{in: "", want: nil},
		{in: "username", want: []DBOrdering{{Field: "username", Ascending: true}}},
		{
			in:   " -pass_points , created_at,,",
			want: []DBOrdering{{Field: "pass_points"}, {Field: "created_at", Ascending: true}},
		},
		{in: "-", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrderings(tt.in))
		})
	}
	assert.Equal(t, "pass_points DESC", DBOrdering{Field: "pass_points"}.String())
}
