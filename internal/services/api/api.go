// Package api provides the HTTP API for the application
package api

import (
	"leadscout/internal/platform/config"
	"leadscout/internal/platform/logger"
	phttp "leadscout/internal/platform/net/http"
	"leadscout/internal/platform/store"

	"leadscout/internal/modkit"
	"leadscout/internal/modkit/httpkit"
	"leadscout/internal/modkit/module"
	"leadscout/internal/modkit/swaggerkit"

	metamod "leadscout/internal/services/api/meta/module"
	runsmod "leadscout/internal/services/api/runs/module"

	catalogmod "leadscout/internal/services/catalog/module"
	keywordsmod "leadscout/internal/services/keywords/module"
	minutesmod "leadscout/internal/services/minutes/module"
	pipedom "leadscout/internal/services/pipeline/domain"
	pipemod "leadscout/internal/services/pipeline/module"
	rulesmod "leadscout/internal/services/rules/module"
	topicsmod "leadscout/internal/services/topics/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// construct the pipeline collaborators first and hand their ports to the
	// pipeline module, then expose its Runner to the API surface
	minutes := minutesmod.New(deps)
	rules := rulesmod.New(deps)
	catalog := catalogmod.New(deps)
	keywords := keywordsmod.New(deps)
	topics := topicsmod.New(deps)

	pipeline := pipemod.New(deps, pipemod.Options{}, modkit.WithPorts(pipedom.Ports{
		Minutes:  minutes.Ports().(minutesmod.Ports).Reader,
		Rules:    rules.Ports().(rulesmod.Ports).Reader,
		Catalog:  catalog.Ports().(catalogmod.Ports).Reader,
		Keywords: keywords.Ports().(keywordsmod.Ports).Builder,
		Topics:   topics.Ports().(topicsmod.Ports).Writer,
	}))
	runner := pipeline.Ports().(pipemod.Ports).Runner

	runs := runsmod.New(deps, modkit.WithPorts(runsmod.Ports{
		Runner: runner,
	}))

	mods := []module.Module{
		metamod.New(deps),
		minutes,
		rules,
		catalog,
		keywords,
		topics,
		pipeline, // include pipeline so its ports are registered
		runs,     // API module that depends on the pipeline Runner
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
