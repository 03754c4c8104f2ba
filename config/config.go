package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// New reads the configuration from the process environment
func New(ctx context.Context) (*Config, error) {
	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper reads the configuration from an arbitrary source
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &cfg, l); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.Animation.Pace <= 0 {
		return nil, fmt.Errorf("CHROMA_PACE must be positive, got %s", cfg.Animation.Pace)
	}
	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 1 {
		return nil, fmt.Errorf("CHROMA_AUDIO_VOLUME must be within [0,1], got %v", cfg.Audio.Volume)
	}
	return &cfg, nil
}

type Config struct {
	Animation *Animation
	Audio     *Audio
	MQTT      *MQTT
}

type Animation struct {
	Pace      time.Duration `env:"CHROMA_PACE,default=50ms"`
	AutoStart bool          `env:"CHROMA_AUTOSTART,default=true"`
}

type Audio struct {
	Enabled bool    `env:"CHROMA_AUDIO_ENABLED,default=false"`
	Volume  float64 `env:"CHROMA_AUDIO_VOLUME,default=0.3"`
}

// MQTT mirrors colors to a broker when Broker is set
type MQTT struct {
	Broker   string `env:"CHROMA_MQTT_BROKER"`
	ClientID string `env:"CHROMA_MQTT_CLIENT_ID,default=chromotherapy"`
	Topic    string `env:"CHROMA_MQTT_TOPIC,default=chromotherapy/color"`
}

// Enabled reports whether a broker is configured
func (m *MQTT) Enabled() bool {
	return m != nil && m.Broker != ""
}
