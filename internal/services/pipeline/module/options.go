package module

import (
	"time"

	"leadscout/internal/platform/config"
)

// Options holds configuration settings for the pipeline module
type Options struct {
	ZeroBatch       int
	RankWorkers     int
	FirstOrderLimit int
	ZeroLimit       int
	PageSize        int
	PadSec          int
	SnippetMax      int
	KeywordTTL      time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	pf := cfg.Prefix("CORE_PIPELINE_")
	return Options{
		ZeroBatch:       pf.MayInt("ZERO_BATCH", 10),
		RankWorkers:     pf.MayInt("RANK_WORKERS", 3),
		FirstOrderLimit: pf.MayInt("FIRST_ORDER_LIMIT", 100),
		ZeroLimit:       pf.MayInt("ZERO_LIMIT", 0),
		PageSize:        pf.MayInt("PAGE_SIZE", 500),
		PadSec:          pf.MayInt("PAD_SEC", 30),
		SnippetMax:      pf.MayInt("SNIPPET_MAX", 10),
		KeywordTTL:      pf.MayDuration("KEYWORD_TTL", 15*time.Minute),
	}
}
