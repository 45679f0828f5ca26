package encryption

import "fmt"

// Encryptor seals and opens byte blobs with a symmetric AEAD cipher.
// The sqlite spill store uses it as the optional at-rest codec for
// batch payloads.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Algorithm names an AEAD construction.
type Algorithm string

const (
	// AlgorithmAESGCM is AES-256-GCM, the default.
	AlgorithmAESGCM Algorithm = "aes-256-gcm"

	// AlgorithmChaCha20 is ChaCha20-Poly1305, faster on CPUs without AES-NI.
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

var constructors = map[Algorithm]func(key string) (*aeadCodec, error){
	AlgorithmAESGCM:   newAESGCM,
	AlgorithmChaCha20: newChaCha20,
}

// Option configures New.
type Option func(*Algorithm)

// WithAlgorithm selects the AEAD construction.
func WithAlgorithm(alg Algorithm) Option {
	return func(a *Algorithm) { *a = alg }
}

// New builds an Encryptor from a passphrase. The passphrase is hashed
// with SHA-256 down to the key length the algorithm requires, so it can
// be any length.
func New(key string, opts ...Option) (Encryptor, error) {
	alg := AlgorithmAESGCM
	for _, opt := range opts {
		opt(&alg)
	}

	build, ok := constructors[alg]
	if !ok {
		return nil, fmt.Errorf("unknown encryption algorithm %q", alg)
	}
	return build(key)
}
