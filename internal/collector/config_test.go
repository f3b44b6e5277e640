package collector

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Check default timeouts
	if cfg.CountTimeout != 2*time.Second {
		t.Errorf("Expected CountTimeout 2s, got %v", cfg.CountTimeout)
	}
	if cfg.CapabilityTimeout != 5*time.Second {
		t.Errorf("Expected CapabilityTimeout 5s, got %v", cfg.CapabilityTimeout)
	}

	// Check polling and limits
	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("Expected RefreshInterval 30s, got %v", cfg.RefreshInterval)
	}
	if cfg.MaxConcurrent != 4 {
		t.Errorf("Expected MaxConcurrent 4, got %d", cfg.MaxConcurrent)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid default config",
			cfg:     DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "invalid count timeout",
			cfg:     DefaultConfig().WithCountTimeout(0),
			wantErr: true,
		},
		{
			name:    "invalid capability timeout",
			cfg:     DefaultConfig().WithCapabilityTimeout(-time.Second),
			wantErr: true,
		},
		{
			name:    "refresh disabled",
			cfg:     DefaultConfig().WithRefreshInterval(0),
			wantErr: false,
		},
		{
			name:    "negative refresh",
			cfg:     DefaultConfig().WithRefreshInterval(-time.Second),
			wantErr: true,
		},
		{
			name:    "no concurrency",
			cfg:     DefaultConfig().WithMaxConcurrent(0),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_WithMethods(t *testing.T) {
	cfg := DefaultConfig()

	newCfg := cfg.WithCountTimeout(5 * time.Second)
	if newCfg.CountTimeout != 5*time.Second {
		t.Errorf("WithCountTimeout failed, got %v", newCfg.CountTimeout)
	}
	// Original should be unchanged
	if cfg.CountTimeout != 2*time.Second {
		t.Error("WithCountTimeout mutated original config")
	}

	newCfg = cfg.WithMaxConcurrent(8)
	if newCfg.MaxConcurrent != 8 {
		t.Errorf("WithMaxConcurrent failed, got %d", newCfg.MaxConcurrent)
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "TestField",
		Message: "test message",
	}

	expected := "config error: TestField test message"
	if err.Error() != expected {
		t.Errorf("Expected error '%s', got '%s'", expected, err.Error())
	}
}
