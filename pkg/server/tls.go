package server

import (
	"crypto/tls"
	"errors"
	"fmt"
)

// ErrMissingCertificate is returned when only one half of a key pair is set.
var ErrMissingCertificate = errors.New("server: certificate and key files must both be set")

// LoadTLSConfig reads a PEM key pair and returns a TLS 1.3 configuration
// that offers HTTP/2 through ALPN.
func LoadTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	if certFile == "" || keyFile == "" {
		return nil, ErrMissingCertificate
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load key pair: %w", err)
	}
	return &tls.Config{
		Certificates:     []tls.Certificate{cert},
		MinVersion:       tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
		NextProtos:       []string{"h2", "http/1.1"},
	}, nil
}
