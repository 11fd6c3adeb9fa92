// Package pinnedroots builds certificate pools holding only the PIA certificate
// authority, so that API servers are trusted by that CA alone.
package pinnedroots

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"sync"
)

var ErrNoCertificates = errors.New("no certificates found")

// FromBytes builds a pool from PEM encoded certificates, or a single DER encoded one
func FromBytes(data []byte) (*x509.CertPool, error) {
	p := x509.NewCertPool()

	if block, _ := pem.Decode(data); block != nil {
		if !p.AppendCertsFromPEM(data) {
			return nil, ErrNoCertificates
		}
		return p, nil
	}

	cert, err := x509.ParseCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("parse DER certificate: %w", err)
	}
	p.AddCert(cert)
	return p, nil
}

// Roots loads a pool from a file once and serves it to every caller afterwards
type Roots struct {
	path string

	once sync.Once
	p    *x509.CertPool
	err  error
}

// New returns roots loaded lazily from path
func New(path string) *Roots {
	return &Roots{path: path}
}

// Get returns the pool, loading it on first use
func (r *Roots) Get() (*x509.CertPool, error) {
	r.once.Do(func() {
		data, err := os.ReadFile(r.path)
		if err != nil {
			r.err = fmt.Errorf("read %s: %w", r.path, err)
			return
		}
		r.p, r.err = FromBytes(data)
	})
	return r.p, r.err
}
