// Package server runs an http.Handler with production timeouts and graceful
// shutdown.
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return srv.Run(ctx, router)()
//
// Start blocks until the context is canceled and leaves the listener open;
// Stop drains in-flight requests within the shutdown timeout. Run combines
// the two for use with errgroup.
//
// TLS is served when Config carries both HTTP_TLS_CERT_FILE and
// HTTP_TLS_KEY_FILE, or when WithTLS is given.
package server
