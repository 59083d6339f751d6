// Package router provides a custom HTTP router with pattern matching,
// middleware support, and URL parameter extraction.
//
// The router supports the following patterns:
//   - Exact match: /health
//   - Named parameters: /api/v1/sessions/:sid
//   - Nested parameters: /api/v1/sessions/:sid/windows/:wid/focus
//   - Wildcard matching: /static/* (read it back with Wildcard)
//
// The matched pattern is stored in the request context so middleware can
// label metrics without one series per URL.
//
// Example usage:
//
//	r := router.New()
//	r.Use(router.RecoveryMiddleware(), router.LoggingMiddleware(), router.MetricsMiddleware())
//	r.GET("/api/v1/sessions/:sid", SessionHandler)
//	http.ListenAndServe(":8080", r)
package router
