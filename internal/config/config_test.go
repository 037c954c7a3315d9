package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "Defaults",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":8080", cfg.App.Port)
				assert.Equal(t, DriverPostgres, cfg.Database.Driver)
				assert.Equal(t, 300*time.Second, cfg.Database.ConnMaxLifetime)
				assert.False(t, cfg.RabbitMQ.Enabled)
				assert.Equal(t, "products", cfg.RabbitMQ.Exchange)
			},
		},
		{
			name: "Environment overrides",
			envVars: map[string]string{
				"APP_PORT":             ":9090",
				"DATABASE_DRIVER":      "sqlite",
				"DATABASE_URI":         "file:catalog.db",
				"DB_MAX_OPEN_CONNS":    "10",
				"DB_MAX_IDLE_CONNS":    "2",
				"DB_CONN_MAX_LIFETIME": "60",
				"DB_SEED":              "true",
				"LOG_LEVEL":            "debug",
				"LOG_FORMAT":           "console",
				"RABBITMQ_ENABLED":     "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":9090", cfg.App.Port)
				assert.Equal(t, DriverSQLite, cfg.Database.Driver)
				assert.Equal(t, "file:catalog.db", cfg.Database.URI)
				assert.Equal(t, 10, cfg.Database.MaxOpenConns)
				assert.Equal(t, 2, cfg.Database.MaxIdleConns)
				assert.Equal(t, time.Minute, cfg.Database.ConnMaxLifetime)
				assert.True(t, cfg.Database.Seed)
				assert.Equal(t, "debug", cfg.Logger.Level)
				assert.True(t, cfg.RabbitMQ.Enabled)
			},
		},
		{
			name:        "Error - invalid driver",
			envVars:     map[string]string{"DATABASE_DRIVER": "oracle"},
			expectError: true,
			errorMsg:    "invalid database driver",
		},
		{
			name:        "Error - idle exceeds open",
			envVars:     map[string]string{"DB_MAX_OPEN_CONNS": "2", "DB_MAX_IDLE_CONNS": "5"},
			expectError: true,
			errorMsg:    "max idle connections",
		},
		{
			name:        "Error - invalid log level",
			envVars:     map[string]string{"LOG_LEVEL": "verbose"},
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name:        "Error - invalid log format",
			envVars:     map[string]string{"LOG_FORMAT": "xml"},
			expectError: true,
			errorMsg:    "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := LoadFrom(viper.New())

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfig_ValidateMemoryDriverNeedsNoURI(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Port: ":8080"},
		Database: DatabaseConfig{Driver: DriverMemory, MaxOpenConns: 1},
		Logger:   LoggerConfig{Level: "info", Format: "json"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = DriverPostgres
	assert.ErrorContains(t, cfg.Validate(), "database URI is required")

	cfg.Database.URI = "postgres://localhost/db"
	cfg.RabbitMQ = RabbitMQConfig{Enabled: true, URL: "amqp://localhost"}
	assert.ErrorContains(t, cfg.Validate(), "exchange and queue are required")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("dropped")
	logger.Warn().Str("component", "test").Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"component":"test"`)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	fallback := newLogger(LoggerConfig{Level: "bogus"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, fallback.GetLevel())
}
