package module

import (
	"leadscout/internal/platform/config"
)

// Options configures the topics module
type Options struct {
	ChunkSize int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	tf := cfg.Prefix("CORE_TOPICS_")
	return Options{
		ChunkSize: tf.MayInt("CHUNK_SIZE", 200),
	}
}
