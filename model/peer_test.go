package model

import (
	"bytes"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, KeyLength)
}

func TestNewPeerConfiguration(t *testing.T) {
	_, err := NewPeerConfiguration(testKey(1)[:31])
	assert.ErrorIs(t, err, ErrInvalidPublicKey)

	key := testKey(1)
	peer, err := NewPeerConfiguration(key)
	require.NoError(t, err)

	key[0] = 9
	assert.Equal(t, testKey(1), peer.PublicKey, "public key must be copied")
}

func TestSetPreSharedKey(t *testing.T) {
	peer, err := NewPeerConfiguration(testKey(1))
	require.NoError(t, err)

	assert.ErrorIs(t, peer.SetPreSharedKey([]byte("short")), ErrInvalidPreSharedKey)
	assert.Nil(t, peer.PreSharedKey)

	require.NoError(t, peer.SetPreSharedKey(testKey(2)))
	assert.Equal(t, testKey(2), peer.PreSharedKey)

	require.NoError(t, peer.SetPreSharedKey(nil))
	assert.Nil(t, peer.PreSharedKey)
}

func newTestPeer(t *testing.T) *PeerConfiguration {
	t.Helper()
	peer, err := NewPeerConfiguration(testKey(1))
	require.NoError(t, err)
	keepAlive := uint16(25)
	peer.PersistentKeepAlive = &keepAlive
	peer.Endpoint = &Endpoint{Host: "10.0.0.1", Port: 1337}
	peer.AllowedIPs = []netip.Prefix{
		netip.MustParsePrefix("0.0.0.0/0"),
		netip.MustParsePrefix("10.0.0.0/8"),
	}
	return peer
}

func TestPeerConfiguration_Equal(t *testing.T) {
	a := newTestPeer(t)
	b := newTestPeer(t)

	// order of allowed IPs and runtime counters do not matter
	b.AllowedIPs = []netip.Prefix{b.AllowedIPs[1], b.AllowedIPs[0]}
	rx := uint64(100)
	now := time.Now()
	b.RxBytes = &rx
	b.LastHandshakeTime = &now

	assert.True(t, a.Equal(*b))

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	testCases := []struct {
		name   string
		modify func(p *PeerConfiguration)
	}{
		{"public key", func(p *PeerConfiguration) { p.PublicKey = testKey(7) }},
		{"preshared key", func(p *PeerConfiguration) { p.PreSharedKey = testKey(3) }},
		{"allowed ips", func(p *PeerConfiguration) { p.AllowedIPs = p.AllowedIPs[:1] }},
		{"endpoint port", func(p *PeerConfiguration) { p.Endpoint = &Endpoint{Host: "10.0.0.1", Port: 1338} }},
		{"no endpoint", func(p *PeerConfiguration) { p.Endpoint = nil }},
		{"keepalive", func(p *PeerConfiguration) { k := uint16(10); p.PersistentKeepAlive = &k }},
		{"no keepalive", func(p *PeerConfiguration) { p.PersistentKeepAlive = nil }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			other := newTestPeer(t)
			tc.modify(other)
			assert.False(t, a.Equal(*other))
			assert.False(t, other.Equal(*a))
		})
	}
}

func TestParseEndpoint(t *testing.T) {
	testCases := []struct {
		input    string
		expected *Endpoint
		isIP     bool
	}{
		{"10.1.2.3:1337", &Endpoint{Host: "10.1.2.3", Port: 1337}, true},
		{"[fd00::1]:51820", &Endpoint{Host: "fd00::1", Port: 51820}, true},
		{"toronto401.privacy.network:1337", &Endpoint{Host: "toronto401.privacy.network", Port: 1337}, false},
		{"10.1.2.3", nil, false},
		{":1337", nil, false},
		{"10.1.2.3:0", nil, false},
		{"10.1.2.3:70000", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			ep, err := ParseEndpoint(tc.input)
			if tc.expected == nil {
				assert.ErrorIs(t, err, ErrInvalidEndpoint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ep)
			assert.Equal(t, tc.input, ep.String())
			_, isIP := ep.Addr()
			assert.Equal(t, tc.isIP, isIP)
		})
	}
}
