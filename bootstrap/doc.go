// Package bootstrap orchestrates application lifecycle for streaming services.
//
// It provides typed configuration, component registration, lifecycle hooks,
// and graceful shutdown so a service main stays small:
//
//	cfg := &IngestConfig{}
//	if err := config.LoadConfig("ingest", cfg); err != nil {
//	    log.Fatal(err)
//	}
//	app, err := bootstrap.NewApp(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.RegisterComponent(kafkaSource)
//	app.RegisterComponent(spillStore)
//	app.OnAssemble(func(ctx context.Context, a *bootstrap.App[*IngestConfig]) error {
//	    // assemble pipelines from started components
//	    return nil
//	})
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Components start in registration order and stop in reverse, so sinks
// registered after sources drain before their upstream disappears.
package bootstrap
