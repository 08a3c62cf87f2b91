package codec

import (
	"io"
)

// Config provides environment-based configuration for the codec.
type Config struct {
	Secret       string `env:"SESSION_SECRET,required"`
	KDFTime      uint32 `env:"SESSION_KDF_TIME" envDefault:"2"`
	KDFMemoryKiB uint32 `env:"SESSION_KDF_MEMORY_KIB" envDefault:"19456"`
	KDFThreads   uint8  `env:"SESSION_KDF_THREADS" envDefault:"1"`
}

// KDFParams tunes the Argon2id key derivation run on every Encode and Decode.
type KDFParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultKDFParams returns the Argon2id parameters used when none are configured.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:      2,
		MemoryKiB: 19 * 1024,
		Threads:   1,
	}
}

func (p KDFParams) validate() error {
	if p.Time < 1 || p.Threads < 1 || p.MemoryKiB < 8*uint32(p.Threads) {
		return ErrInvalidKDFParams
	}
	return nil
}

// Option configures a Codec.
type Option func(*Codec)

// WithKDFParams overrides the Argon2id parameters.
func WithKDFParams(p KDFParams) Option {
	return func(c *Codec) {
		c.params = p
	}
}

// WithRandom replaces the entropy source used for salts and IVs.
// The reader must be safe for concurrent use.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) {
		if r != nil {
			c.rand = r
		}
	}
}

// NewFromConfig creates a Codec from configuration. Options passed by the
// caller are applied after the configured ones.
func NewFromConfig(cfg Config, opts ...Option) (*Codec, error) {
	params := DefaultKDFParams()
	if cfg.KDFTime != 0 {
		params.Time = cfg.KDFTime
	}
	if cfg.KDFMemoryKiB != 0 {
		params.MemoryKiB = cfg.KDFMemoryKiB
	}
	if cfg.KDFThreads != 0 {
		params.Threads = cfg.KDFThreads
	}

	configOpts := append([]Option{WithKDFParams(params)}, opts...)
	return New(cfg.Secret, configOpts...)
}
