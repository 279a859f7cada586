package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"leadscout/internal/modkit"
	"leadscout/internal/modkit/module"
	"leadscout/internal/platform/config"
	"leadscout/internal/platform/logger"
	"leadscout/internal/platform/store"

	pipedom "leadscout/internal/services/pipeline/domain"
	"leadscout/internal/services/pipeline/guardrails"
	pipemod "leadscout/internal/services/pipeline/module"

	catalogmod "leadscout/internal/services/catalog/module"
	keywordsmod "leadscout/internal/services/keywords/module"
	minutesmod "leadscout/internal/services/minutes/module"
	rulesmod "leadscout/internal/services/rules/module"
	topicsmod "leadscout/internal/services/topics/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
		CH: store.CHConfig{
			Enabled:    chCfg.MayString("DBURL", "") != "",
			URL:        chCfg.MayString("DBURL", ""),
			ClientName: "leadscout",
			ClientTag:  "pipeline",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var (
		serviceID = flag.String("service", "", "service id to run for (required)")
		sinceStr  = flag.String("since", "", "inclusive date, e.g. 2026-06-01 (default: until minus 7 days)")
		untilStr  = flag.String("until", "", "exclusive date, e.g. 2026-07-01 (default: today)")
		zeroCap   = flag.Int("zero-limit", 0, "cap zero-order survivors (0 = uncapped)")
		foCap     = flag.Int("first-order-limit", 0, "cap evidence extraction (0 = module default)")
		workers   = flag.Int("workers", 0, "ranking concurrency (0 = module default)")
		batch     = flag.Int("batch", 0, "triage judgment batch size (0 = module default)")
		page      = flag.Int("page", 0, "candidate page size (0 = module default)")
		dryRun    = flag.Bool("dry-run", false, "run every stage but skip the final write")
		force     = flag.Bool("force", false, "bypass quiet hours and the minimum interval")
	)
	flag.Parse()

	if *serviceID == "" {
		log.Fatal("-service is required")
	}

	until := time.Now().UTC()
	if *untilStr != "" {
		if until, err = time.Parse("2006-01-02", *untilStr); err != nil {
			log.Fatalf("bad -until: %v", err)
		}
	}
	since := until.Add(-7 * 24 * time.Hour)
	if *sinceStr != "" {
		if since, err = time.Parse("2006-01-02", *sinceStr); err != nil {
			log.Fatalf("bad -since: %v", err)
		}
	}
	if !since.Before(until) {
		log.Fatal("since must be < until")
	}

	// Pass CLI flags into CORE_PIPELINE_* so the module can read its own config
	if *workers > 0 {
		mustSetEnv("CORE_PIPELINE_RANK_WORKERS", strconv.Itoa(*workers))
	}
	if *batch > 0 {
		mustSetEnv("CORE_PIPELINE_ZERO_BATCH", strconv.Itoa(*batch))
	}
	if *page > 0 {
		mustSetEnv("CORE_PIPELINE_PAGE_SIZE", strconv.Itoa(*page))
	}

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	// Build dependency modules first
	mins := minutesmod.New(deps)
	rls := rulesmod.New(deps)
	cat := catalogmod.New(deps)
	kws := keywordsmod.New(deps)
	tps := topicsmod.New(deps)

	// Build the pipeline module with ports injected from deps modules
	pm := pipemod.New(
		deps,
		pipemod.Options{},
		modkit.WithPorts(pipedom.Ports{
			Minutes:  module.MustPortsOf[minutesmod.Ports](mins).Reader,
			Rules:    module.MustPortsOf[rulesmod.Ports](rls).Reader,
			Catalog:  module.MustPortsOf[catalogmod.Ports](cat).Reader,
			Keywords: module.MustPortsOf[keywordsmod.Ports](kws).Builder,
			Topics:   module.MustPortsOf[topicsmod.Ports](tps).Writer,
		}),
	)

	// Register ports
	module.Register(mins.Name(), mins.Ports())
	module.Register(rls.Name(), rls.Ports())
	module.Register(cat.Name(), cat.Ports())
	module.Register(kws.Name(), kws.Ports())
	module.Register(tps.Name(), tps.Ports())
	module.Register(pm.Name(), pm.Ports())

	runner := pm.Ports().(pipemod.Ports).Runner
	run := func(ctx context.Context) error {
		res, err := runner.Run(ctx, pipedom.Input{
			ServiceID:       *serviceID,
			Since:           since,
			Until:           until,
			ZeroLimit:       *zeroCap,
			FirstOrderLimit: *foCap,
			DryRun:          *dryRun,
		})
		if err != nil {
			return err
		}
		out, _ := json.MarshalIndent(res, "", "  ")
		os.Stdout.Write(append(out, '\n'))
		return nil
	}

	ctx := context.Background()
	if *force {
		if err := run(ctx); err != nil {
			l.Fatal().Err(err).Msg("pipeline failed")
		}
		return
	}

	gf := root.Prefix("CORE_PIPELINE_")
	gate := guardrails.MakeRunGate(st.PG, guardrails.GateOptions{
		QuietFrom:   gf.MayInt("QUIET_FROM", 0),
		QuietUntil:  gf.MayInt("QUIET_UNTIL", 0),
		MinInterval: gf.MayDuration("MIN_INTERVAL", 30*time.Minute),
	})
	if err := gate(ctx, *serviceID, run); err != nil {
		if errors.Is(err, guardrails.ErrQuietHours) || errors.Is(err, guardrails.ErrTooSoon) {
			l.Warn().Err(err).Str("service", *serviceID).Msg("run gated, skipping")
			return
		}
		l.Fatal().Err(err).Msg("pipeline failed")
	}
}
