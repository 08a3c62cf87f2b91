// Package middleware provides net/http middleware for request IDs, request
// logging and session authentication. Every constructor returns
// func(http.Handler) http.Handler and plugs into chi or any compatible router.
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID())
//	r.Use(middleware.Logging(log))
//
//	r.Group(func(r chi.Router) {
//		r.Use(middleware.RequireAuth(sessions))
//		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
//			user, _ := session.UserFromContext(r.Context())
//			// ...
//		})
//	})
//
// Logging never records headers, cookies or bodies, so session tokens do not
// reach the logs.
package middleware
