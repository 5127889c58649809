// Package bootstrap runs a service's lifecycle: typed config, component
// registration, startup and shutdown hooks, and signal-driven graceful
// shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(storageComponent)
//	_ = app.RegisterComponent(serverComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    // build handlers on top of started components
//	    return nil
//	})
//	return app.Run(ctx)
package bootstrap
