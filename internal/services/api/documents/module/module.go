// Package module wires documents into the API using modkit
package module

import (
	"net/http"

	"quill/internal/core/filter"
	"quill/internal/core/termpack"
	modkit "quill/internal/modkit"
	"quill/internal/modkit/httpkit"
	str "quill/internal/platform/strings"
	docshttp "quill/internal/services/api/documents/http"
	docsrepo "quill/internal/services/api/documents/repo"
	docssvc "quill/internal/services/api/documents/service"
	"quill/internal/services/events"
	pipedom "quill/internal/services/pipeline/domain"
	pipesvc "quill/internal/services/pipeline/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc docssvc.Service
}

// New constructs a documents module with the provided dependencies and options
// prov supplies detection and rewriting; it must not be nil
func New(deps modkit.Deps, prov pipedom.CapabilityProvider, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("documents"), modkit.WithPrefix("/documents")}, opts...)...)

	pack, err := termpack.Load()
	if err != nil {
		panic("documents module: embedded term pack invalid: " + err.Error())
	}

	pipe := pipesvc.New(prov, prov, filter.New(pack), events.New(deps.CH), pipesvc.Config{
		MaxChunkChars: deps.Cfg.MayInt("PIPELINE_MAX_CHUNK_CHARS", 0),
		MinChunkChars: deps.Cfg.MayInt("PIPELINE_MIN_CHUNK_CHARS", 0),
		MaxInflight:   deps.Cfg.MayInt("PIPELINE_MAX_INFLIGHT", 0),
		OpTimeout:     deps.Cfg.MayDuration("PIPELINE_OP_TIMEOUT", 0),
	})

	repo := docsrepo.NewPG()
	svc := docssvc.New(deps.PG, repo, pipe)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptDocumentsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		docshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
