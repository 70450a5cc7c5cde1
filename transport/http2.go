// Package transport provides the HTTP/2 client used by remote module loaders.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
)

// Options configures BuildHTTP2Client. All fields are optional.
type Options struct {
	CertPath string // client certificate (mTLS), requires KeyPath
	KeyPath  string // client key, requires CertPath
	CAPath   string // PEM bundle of trusted roots
	RootCAs  *x509.CertPool

	RequireTLS13 bool
	Timeout      time.Duration
}

// BuildHTTP2Client creates an HTTP/2 client, with mTLS when a certificate pair is given.
func BuildHTTP2Client(opts Options) (*http.Client, error) {
	if (opts.CertPath == "") != (opts.KeyPath == "") {
		return nil, fmt.Errorf("certPath and keyPath must be set together")
	}

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    opts.RootCAs,
	}
	if opts.RequireTLS13 {
		tlsConfig.MinVersion = tls.VersionTLS13
	}

	if opts.CertPath != "" {
		clientCert, err := tls.LoadX509KeyPair(opts.CertPath, opts.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{clientCert}
	}

	if opts.CAPath != "" {
		caCert, err := os.ReadFile(opts.CAPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}

		pool := opts.RootCAs
		if pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		tlsConfig.RootCAs = pool
	}

	return &http.Client{
		Transport: &http2.Transport{TLSClientConfig: tlsConfig},
		Timeout:   opts.Timeout,
	}, nil
}
