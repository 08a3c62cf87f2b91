package codec

import "errors"

var (
	// ErrNoSecret indicates no long-term secret was configured. There is no fallback secret.
	ErrNoSecret = errors.New("codec: no secret provided")

	// ErrSecretTooShort indicates the secret is shorter than the required minimum.
	ErrSecretTooShort = errors.New("codec: secret must be at least 32 characters long")

	// ErrInvalidKDFParams indicates key derivation parameters Argon2id cannot run with.
	ErrInvalidKDFParams = errors.New("codec: invalid key derivation parameters")

	// ErrEntropy indicates the random source failed while generating a salt or IV.
	ErrEntropy = errors.New("codec: failed to read random bytes")

	// ErrDecodeFailure covers every reason a token cannot be opened: malformed
	// structure, bad encodings, wrong lengths, authentication tag mismatch,
	// padding errors and JSON errors. Causes are deliberately not distinguished.
	ErrDecodeFailure = errors.New("codec: invalid token")
)
