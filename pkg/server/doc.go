// Package server hosts the desktop API and its static front end with
// optional TLS and graceful shutdown.
//
// Requests under the API prefixes go to the main handler; everything else
// is served from the static directory when one is configured.
//
// Example usage:
//
//	srv := server.New(server.Config{
//		Addr:      ":8080",
//		Handler:   apiRouter,
//		StaticDir: "./web",
//		Logger:    logging.L(),
//	})
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := srv.Run(ctx); err != nil {
//		logging.Fatal("server failed", logging.Err(err))
//	}
package server
