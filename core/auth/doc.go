// Package auth implements credential sign-in on top of session.Authority.
//
// SignIn looks up a row in the users table matching the submitted fields,
// verifies the bcrypt hash in the password column and the active flag, strips
// the password, and issues a session bound to the client's IP and user agent.
//
//	store := query.New(pool, cfg.Schema())
//	authn := auth.NewFromConfig(cfg, store, sessions,
//		auth.WithLimiter(limiter),
//		auth.WithLogger(log),
//	)
//
//	user, err := authn.SignIn(w, r, query.Row{"email": email, "password": password})
//	switch {
//	case errors.Is(err, auth.ErrTooManyAttempts):
//		// 429
//	case err != nil:
//		// 401 for both ErrInvalidCredentials and ErrStoreUnavailable
//	}
//
// Unknown users, wrong passwords and inactive accounts all yield
// ErrInvalidCredentials. A failing database yields ErrStoreUnavailable, which
// is logged at error level so operators can tell an outage from bad input.
package auth
