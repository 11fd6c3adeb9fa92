package model

import (
	"bytes"
	"errors"
	"fmt"
	"net/netip"
	"sort"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// KeyLength is the length in bytes of WireGuard public, private and preshared keys
const KeyLength = 32

var (
	ErrInvalidPublicKey    = errors.New("invalid public key")
	ErrInvalidPreSharedKey = errors.New("invalid preshared key")
)

// PeerConfiguration describes a single WireGuard peer
type PeerConfiguration struct {
	PublicKey           []byte
	PreSharedKey        []byte
	AllowedIPs          []netip.Prefix
	Endpoint            *Endpoint
	PersistentKeepAlive *uint16

	// runtime counters, not part of the peer identity
	RxBytes           *uint64
	TxBytes           *uint64
	LastHandshakeTime *time.Time
}

// NewPeerConfiguration creates a peer for the given public key
func NewPeerConfiguration(publicKey []byte) (*PeerConfiguration, error) {
	if len(publicKey) != KeyLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPublicKey, KeyLength, len(publicKey))
	}

	return &PeerConfiguration{
		PublicKey: bytes.Clone(publicKey),
	}, nil
}

// SetPreSharedKey sets the preshared key. A nil key clears it.
func (p *PeerConfiguration) SetPreSharedKey(key []byte) error {
	if key == nil {
		p.PreSharedKey = nil
		return nil
	}
	if len(key) != KeyLength {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPreSharedKey, KeyLength, len(key))
	}
	p.PreSharedKey = bytes.Clone(key)
	return nil
}

// Equal compares the identity of two peers. Transfer counters and the last
// handshake time are ignored, allowed IPs are compared as a set.
func (p PeerConfiguration) Equal(other PeerConfiguration) bool {
	if !bytes.Equal(p.PublicKey, other.PublicKey) || !bytes.Equal(p.PreSharedKey, other.PreSharedKey) {
		return false
	}

	if !equalPrefixSets(p.AllowedIPs, other.AllowedIPs) {
		return false
	}

	switch {
	case p.Endpoint == nil && other.Endpoint == nil:
	case p.Endpoint == nil || other.Endpoint == nil:
		return false
	case *p.Endpoint != *other.Endpoint:
		return false
	}

	switch {
	case p.PersistentKeepAlive == nil && other.PersistentKeepAlive == nil:
	case p.PersistentKeepAlive == nil || other.PersistentKeepAlive == nil:
		return false
	case *p.PersistentKeepAlive != *other.PersistentKeepAlive:
		return false
	}

	return true
}

// peerIdentity is the hashed form of a peer, consistent with Equal
type peerIdentity struct {
	PublicKey           []byte
	PreSharedKey        []byte
	AllowedIPs          []string `hash:"set"`
	Endpoint            string
	PersistentKeepAlive *uint16
}

// Hash returns a hash consistent with Equal
func (p PeerConfiguration) Hash() (uint64, error) {
	id := peerIdentity{
		PublicKey:           p.PublicKey,
		PreSharedKey:        p.PreSharedKey,
		AllowedIPs:          prefixStrings(p.AllowedIPs),
		PersistentKeepAlive: p.PersistentKeepAlive,
	}
	if p.Endpoint != nil {
		id.Endpoint = p.Endpoint.String()
	}

	return hashstructure.Hash(id, hashstructure.FormatV2, nil)
}

func prefixStrings(prefixes []netip.Prefix) []string {
	out := make([]string, 0, len(prefixes))
	seen := make(map[netip.Prefix]struct{}, len(prefixes))
	for _, pfx := range prefixes {
		if _, ok := seen[pfx]; ok {
			continue
		}
		seen[pfx] = struct{}{}
		out = append(out, pfx.String())
	}
	sort.Strings(out)
	return out
}

func equalPrefixSets(a, b []netip.Prefix) bool {
	as := prefixStrings(a)
	bs := prefixStrings(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
