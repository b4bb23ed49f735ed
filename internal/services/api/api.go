// Package api provides the HTTP API for the application
package api

import (
	"quill/internal/platform/config"
	"quill/internal/platform/logger"
	phttp "quill/internal/platform/net/http"
	"quill/internal/platform/store"

	"quill/internal/modkit"
	"quill/internal/modkit/httpkit"
	"quill/internal/modkit/module"
	"quill/internal/modkit/swaggerkit"

	docsmod "quill/internal/services/api/documents/module"
	metamod "quill/internal/services/api/meta/module"
	pipedom "quill/internal/services/pipeline/domain"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger

	// Provider supplies detection, rewriting, and balance
	Provider pipedom.CapabilityProvider

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

	mods := []module.Module{
		metamod.New(deps, opt.Provider),
		docsmod.New(deps, opt.Provider),
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
