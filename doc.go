// Package sessionguard issues and verifies encrypted, fingerprint-bound
// session cookies for server-rendered web applications.
//
// A session token is the JSON array [ciphertextHex, saltBase64, ivBase64].
// The plaintext holds the signed-in user together with the client IP and
// User-Agent seen at sign-in; a token replayed from another client is
// rejected.
//
// # Package Organization
//
// Core:
//
//	github.com/dmitrymomot/sessionguard/core/codec    - Argon2id + AES-256-CBC + HMAC token codec
//	github.com/dmitrymomot/sessionguard/core/cookie   - HTTP cookie helpers
//	github.com/dmitrymomot/sessionguard/core/session  - Session authority: issue, read, clear, authenticate
//	github.com/dmitrymomot/sessionguard/core/auth     - Sign-in and sign-out against a users table
//	github.com/dmitrymomot/sessionguard/core/query    - Allow-listed parameterized CRUD over PostgreSQL
//	github.com/dmitrymomot/sessionguard/core/config   - Environment configuration loading
//	github.com/dmitrymomot/sessionguard/core/logger   - Structured logging built on slog
//	github.com/dmitrymomot/sessionguard/core/health   - Liveness and readiness handlers
//	github.com/dmitrymomot/sessionguard/core/server   - HTTP server with graceful shutdown
//
// Middleware:
//
//	github.com/dmitrymomot/sessionguard/middleware    - RequireAuth, RequestID, Logging
//
// Utilities:
//
//	github.com/dmitrymomot/sessionguard/pkg/clientip    - Client IP from proxy headers
//	github.com/dmitrymomot/sessionguard/pkg/fingerprint - IP and User-Agent binding
//	github.com/dmitrymomot/sessionguard/pkg/ratelimiter - Token bucket with memory and Redis stores
//
// Integrations:
//
//	github.com/dmitrymomot/sessionguard/integration/database/pg    - pgx pool with retries and transactions in context
//	github.com/dmitrymomot/sessionguard/integration/database/redis - go-redis client with retries
//
// The sessiond command wires all of the above into a small HTTP service:
//
//	go run ./cmd/sessiond user create --email alice@example.com --password secret
//	go run ./cmd/sessiond serve
package sessionguard
