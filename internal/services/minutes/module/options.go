package module

import (
	"leadscout/internal/platform/config"
)

// Options configures the minutes module
type Options struct {
	HardLimit int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	mf := cfg.Prefix("CORE_MINUTES_")
	return Options{
		HardLimit: mf.MayInt("HARD_LIMIT", 5000),
	}
}
