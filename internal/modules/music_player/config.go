package music_player

import (
	"fmt"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/queue"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/caarlos0/env/v11"
)

// Config holds the music player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	LavalinkNodeName string `env:"LAVALINK_NODE_NAME" envDefault:"main"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE" envDefault:"false"`

	// StatusRefreshInterval is how often the status message is redrawn. Zero disables it.
	StatusRefreshInterval time.Duration `env:"STATUS_REFRESH_INTERVAL" envDefault:"15s"`
	StatusEditsPerSecond  float64       `env:"STATUS_EDITS_PER_SECOND" envDefault:"1"`
	ListViewTimeout       time.Duration `env:"LIST_VIEW_TIMEOUT" envDefault:"60s"`

	PlaylistFetchConcurrency int    `env:"PLAYLIST_FETCH_CONCURRENCY" envDefault:"4"`
	SuppressBulkAutoplay     bool   `env:"SUPPRESS_BULK_AUTOPLAY" envDefault:"true"`
	VolumeMode               string `env:"VOLUME_MODE" envDefault:"queue"`
	DefaultVolume            int    `env:"DEFAULT_VOLUME" envDefault:"10"`
}

// LoadConfig loads and validates the module configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Policy(); err != nil {
		return nil, err
	}
	if cfg.StatusRefreshInterval < 0 {
		return nil, fmt.Errorf("STATUS_REFRESH_INTERVAL must not be negative")
	}
	return cfg, nil
}

// Policy returns the queue policy described by the configuration.
func (c *Config) Policy() (queue.Policy, error) {
	mode, ok := domain.ParseVolumeMode(c.VolumeMode)
	if !ok {
		return queue.Policy{}, fmt.Errorf("invalid VOLUME_MODE %q: want queue or song", c.VolumeMode)
	}
	volume := domain.Volume(c.DefaultVolume)
	if !volume.Valid() {
		return queue.Policy{}, fmt.Errorf("invalid DEFAULT_VOLUME %d: %w", c.DefaultVolume, domain.ErrInvalidVolume)
	}
	return queue.Policy{VolumeMode: mode, DefaultVolume: volume}, nil
}
