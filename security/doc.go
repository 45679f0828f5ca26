// Package security builds *tls.Config values from declarative connector
// settings.
//
// Connector configs embed TLSConfig; Build returns nil for a zero value,
// which the transports treat as plaintext.
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/etc/streamkit/ca.pem",
//	    CertFile: "/etc/streamkit/client.pem",
//	    KeyFile:  "/etc/streamkit/client-key.pem",
//	}
//	tlsConfig, err := cfg.Build()
package security
