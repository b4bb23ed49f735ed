// @title         Quill API
// @version       0.1.0
// @description   Document AI-detection and humanization endpoints

package main

import (
	"context"

	"quill/internal/platform/config"
	"quill/internal/platform/logger"
	phttp "quill/internal/platform/net/http"
	"quill/internal/platform/store"

	"quill/internal/adapters/capability"
	capollama "quill/internal/adapters/capability/ollama"
	"quill/internal/services/api"
	pipedom "quill/internal/services/pipeline/domain"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	capCfg := root.Prefix("SERVICE_CAPABILITY_")
	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres + clickhouse)
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "quill-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled: chCfg.MayBool("ENABLED", true),
				URL:     chCfg.MayString("DBURL", ""),
				Role:    "api",
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	prov := openProvider(capCfg, l)

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			Provider:       prov,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// openProvider picks the capability backend from config
// "http" talks to the hosted provider; "ollama" runs against a local model
func openProvider(cfg config.Conf, l *logger.Logger) pipedom.CapabilityProvider {
	switch kind := cfg.MayEnum("PROVIDER", "http", "http", "ollama"); kind {
	case "ollama":
		p, err := capollama.New(capollama.Config{
			Model:   cfg.MayString("MODEL", ""),
			BaseURL: cfg.MayString("URL", ""),
		})
		if err != nil {
			l.Panic().Err(err).Msg("ollama provider init failed")
		}
		return p
	default:
		return capability.NewClient(capability.Options{
			BaseURL:    cfg.MustString("URL"),
			APIKey:     cfg.MayString("APIKEY", ""),
			Timeout:    cfg.MayDuration("TIMEOUT", 0),
			MaxRetries: cfg.MayInt("MAX_RETRIES", 0),
			RPS:        cfg.MayFloat64("RPS", 0),
		})
	}
}
