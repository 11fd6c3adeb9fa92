package tunnel

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/Commencement-Technology/mobile-ios-wireguard/model"
)

func TestServerPeer(t *testing.T) {
	resp := testResponse()
	serverKey, err := resp.ServerPublicKey()
	require.NoError(t, err)

	peer, err := ServerPeer(resp)
	require.NoError(t, err)

	keepAlive := uint16(25)
	expected, err := model.NewPeerConfiguration(serverKey[:])
	require.NoError(t, err)
	expected.Endpoint = &model.Endpoint{Host: "10.20.30.40", Port: 1337}
	expected.PersistentKeepAlive = &keepAlive
	expected.AllowedIPs = []netip.Prefix{netip.MustParsePrefix("0.0.0.0/0")}

	assert.True(t, expected.Equal(*peer))
}

func TestPeerConfig(t *testing.T) {
	key, err := wgtypes.GenerateKey()
	require.NoError(t, err)
	psk, err := wgtypes.GenerateKey()
	require.NoError(t, err)

	peer, err := model.NewPeerConfiguration(key[:])
	require.NoError(t, err)
	require.NoError(t, peer.SetPreSharedKey(psk[:]))
	peer.Endpoint = &model.Endpoint{Host: "2001:db8::1", Port: 51820}
	peer.AllowedIPs = []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("fd00::/64")}

	cfg, err := peerConfig(peer)
	require.NoError(t, err)
	assert.Equal(t, key, cfg.PublicKey)
	require.NotNil(t, cfg.PresharedKey)
	assert.Equal(t, psk, *cfg.PresharedKey)
	assert.Equal(t, "[2001:db8::1]:51820", cfg.Endpoint.String())
	assert.Nil(t, cfg.PersistentKeepaliveInterval)
	require.Len(t, cfg.AllowedIPs, 2)
	assert.Equal(t, "10.0.0.0/8", cfg.AllowedIPs[0].String())
	assert.Equal(t, "fd00::/64", cfg.AllowedIPs[1].String())
}

func TestPeerConfig_HostnameEndpoint(t *testing.T) {
	key, err := wgtypes.GenerateKey()
	require.NoError(t, err)

	peer, err := model.NewPeerConfiguration(key[:])
	require.NoError(t, err)
	peer.Endpoint = &model.Endpoint{Host: "toronto401.privacy.network", Port: 1337}

	_, err = peerConfig(peer)
	assert.ErrorIs(t, err, model.ErrInvalidEndpoint)
}
