// Package server wraps the standard http.Server with configurable timeouts,
// optional TLS and graceful shutdown.
//
// # Features
//
//   - Graceful shutdown bounded by a configurable timeout (30s by default)
//   - Configurable read, write and idle timeouts and a header size limit
//   - TLS from a *tls.Config, or from certificate and key files via Config
//   - Preset TLS configurations (Default, Modern, Intermediate, Strict)
//   - Configuration from environment variables through Config
//   - An errgroup-friendly Run method
//
// The package does not add middleware, health check endpoints, request
// logging or signal handling; those belong to the handler and the caller.
//
// # Basic Usage
//
// Create a server for an address and start it with a handler:
//
//	import "github.com/momentumlabs/docflow/core/server"
//
//	srv := server.New(":8080",
//		server.WithReadTimeout(30*time.Second),
//		server.WithWriteTimeout(30*time.Second),
//	)
//
//	// Start blocks until ctx is canceled or the listener fails.
//	// It returns ctx.Err() on cancellation without shutting the server down;
//	// call Stop for that, or use Run.
//	if err := srv.Start(ctx, router); err != nil && !errors.Is(err, context.Canceled) {
//		log.Fatal("Server failed:", err)
//	}
//
// # Server Configuration
//
// Configure the server with options:
//
//	srv := server.New("0.0.0.0:8080",
//		server.WithReadTimeout(15*time.Second),
//		server.WithWriteTimeout(15*time.Second),
//		server.WithIdleTimeout(60*time.Second),
//		server.WithMaxHeaderBytes(1<<20), // 1MB
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithLogger(logger),
//	)
//
// Or from environment variables (SERVER_ADDR, SERVER_READ_TIMEOUT, ...):
//
//	var cfg server.Config // populated by core/config
//	srv, err := server.NewFromConfig(cfg)
//
// # TLS Configuration
//
// Enable HTTPS with a TLS configuration:
//
//	tlsConfig, err := server.NewTLSConfig(
//		server.WithTLSCertificate("cert.pem", "key.pem"),
//		server.WithTLSMinVersion(tls.VersionTLS13),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	srv := server.New(":8443", server.WithTLS(tlsConfig))
//
// With Config, setting both SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE
// loads the certificate pair; if either is empty TLS is not configured.
//
// # Graceful Shutdown
//
// Run returns a function for errgroup that starts the server and calls Stop
// when ctx is canceled:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	if err := g.Wait(); err != nil {
//		log.Fatal(err)
//	}
//
// Stop shuts the server down, waiting for active requests up to the
// shutdown timeout.
//
// # Best Practices
//
//   - Set appropriate timeouts for your use case
//   - Use TLS for production deployments
//   - Implement proper graceful shutdown
//   - Add health check endpoints for monitoring
//   - Use middleware for cross-cutting concerns
//   - Configure limits to prevent resource exhaustion
//   - Log server events for debugging and monitoring
//   - Handle signals for clean shutdown
//   - Test server configuration under load
//   - Monitor server metrics in production
package server
