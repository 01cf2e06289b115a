// Package setup wires the ambient stack for applications that run pipelines:
// it applies and validates settings, initializes the global logger, installs
// OpenTelemetry tracer and meter providers when enabled, and registers the
// pipeline metrics.
//
//	var cfg config.Settings
//	if err := config.Load("etl", &cfg); err != nil {
//	    return err
//	}
//	rt, err := setup.Init(ctx, &cfg)
//	if err != nil {
//	    return err
//	}
//	return rt.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := pipeline.Collect(ctx, pipeline.Range(1, 10, 1))
//	    return err
//	})
package setup
