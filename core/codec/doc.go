// Package codec seals arbitrary JSON-serializable values into opaque token
// strings suitable for cookies, and opens them again.
//
// # Construction
//
// Each token is built as follows:
//
//  1. the value is serialized with encoding/json;
//  2. a fresh 16-byte salt is drawn and Argon2id derives 64 bytes of key
//     material from the long-term secret and the salt: an AES-256 key and an
//     HMAC-SHA256 key;
//  3. a fresh 16-byte IV is drawn and the PKCS#7-padded payload is encrypted
//     with AES-256-CBC;
//  4. an HMAC-SHA256 tag over salt, IV and ciphertext is appended to the
//     ciphertext.
//
// # Wire Format
//
// A token is a JSON array of exactly three strings, in this order:
//
//	["<lowercase hex of ciphertext||tag>", "<std base64 salt>", "<std base64 iv>"]
//
// All three parts are needed to open a token. Decode accepts only the
// canonical encodings produced by Encode.
//
// # Usage
//
//	c, err := codec.New(os.Getenv("SESSION_SECRET"))
//	if err != nil {
//		log.Fatal(err) // no secret, or shorter than 32 characters
//	}
//
//	token, err := c.Encode(map[string]any{"id": 1})
//
//	var out map[string]any
//	if err := c.Decode(token, &out); err != nil {
//		// err is always codec.ErrDecodeFailure
//	}
//
// # Failure Reporting
//
// Decode folds every failure (bad JSON, bad hex or base64, wrong salt or IV
// length, tag mismatch, bad padding, payload JSON errors) into
// ErrDecodeFailure. The tag is verified before decryption, so padding is never
// checked on unauthenticated data.
//
// Key derivation is deliberately expensive and runs on every Encode and
// Decode. Tune it with WithKDFParams or the SESSION_KDF_* variables.
package codec
