package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig is the transport-security section connector configs embed.
// A zero value means plaintext; setting any field turns TLS on.
type TLSConfig struct {
	// SkipVerify disables server certificate verification. Test setups only.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile points at a PEM bundle used to verify the server.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile/KeyFile carry the client keypair for mTLS. Both or neither.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the name checked against the server certificate.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion bounds the negotiated protocol; zero means TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// Validate rejects a half-configured mTLS keypair.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("security/tls: cert_file and key_file go together")
	}
	return nil
}

// Build renders the section into a *tls.Config for a dialer or
// transport. A nil or fully-zero config yields (nil, nil), which the
// connectors treat as plaintext.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if c == nil || !c.enabled() {
		return nil, nil
	}

	out := &tls.Config{
		InsecureSkipVerify: c.SkipVerify,
		ServerName:         c.ServerName,
		MinVersion:         c.MinVersion,
	}
	if out.MinVersion == 0 {
		out.MinVersion = tls.VersionTLS12
	}

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("security/tls: reading CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("security/tls: CA file %s holds no usable certificates", c.CAFile)
		}
		out.RootCAs = pool
	}

	if c.CertFile != "" && c.KeyFile != "" {
		pair, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("security/tls: loading client keypair: %w", err)
		}
		out.Certificates = []tls.Certificate{pair}
	}

	return out, nil
}

func (c *TLSConfig) enabled() bool {
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.ServerName != "" || c.MinVersion != 0
}
