// internal/common/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "attrition",
		User:     "advisor",
		Password: "secret",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDSN()
	assert.Equal(t, "host=localhost port=5432 user=advisor password=secret dbname=attrition sslmode=disable", dsn)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, 0.68, cfg.Model.Threshold)
	assert.Equal(t, 0.7, cfg.GenAI.Temperature)
	assert.Equal(t, "configs/model/model.json", cfg.Model.ArtifactPath)
	assert.Equal(t, "configs/model/features.json", cfg.Model.FeaturesPath)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name: "threshold out of range",
			mutate: func(cfg *Config) {
				cfg.Model.Threshold = 1.2
			},
			wantErr: true,
		},
		{
			name: "negative temperature",
			mutate: func(cfg *Config) {
				cfg.GenAI.Temperature = -0.1
			},
			wantErr: true,
		},
		{
			name: "email enabled without sender",
			mutate: func(cfg *Config) {
				cfg.Notifications.Email.Enabled = true
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
