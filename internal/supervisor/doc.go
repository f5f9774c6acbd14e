// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package supervisor builds the suture v4 process tree for the service.

	cinerec (root)
	├── data-layer
	│   └── topic-cluster-warmer
	├── messaging-layer
	│   └── review-cache-invalidator
	└── api-layer
	    └── http-server

Each layer restarts its own children with exponential backoff once the
failure threshold is crossed. Supervisor events (restarts, backoff,
panics) are logged through sutureslog, bridged to zerolog by
logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewClusterWarmer(engine, warmCfg, logger))
	tree.AddMessagingService(events.NewCacheInvalidator(bus, engine))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

Service wrappers live in the services subpackage.
*/
package supervisor
