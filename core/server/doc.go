// Package server provides the HTTP transport boundary for the routing
// core: a thin http.Server wrapper with graceful shutdown, option-based
// configuration, and environment-driven Config loading.
//
//	cfg, err := server.LoadConfig(".env")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	if err := srv.Run(ctx, mux); err != nil {
//	    log.Fatal(err)
//	}
//
// The server adds no routing semantics; request-level cancellation and
// deadlines propagate to handlers through the request context.
package server
