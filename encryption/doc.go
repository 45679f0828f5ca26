// Package encryption provides authenticated encryption for byte blobs.
//
// Keys are derived from passphrases with SHA-256, producing 256-bit keys
// for AES-GCM (default) or ChaCha20-Poly1305. The sqlite spill store
// uses an Encryptor as its optional at-rest codec.
//
// # Usage
//
//	enc, err := encryption.New("my-secret-passphrase")
//	blob, err := enc.Encrypt(payload)
//	payload, err := enc.Decrypt(blob)
package encryption
