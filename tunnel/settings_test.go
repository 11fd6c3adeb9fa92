package tunnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Commencement-Technology/mobile-ios-wireguard/api"
	"github.com/Commencement-Technology/mobile-ios-wireguard/configuration"
)

func testResponse() *api.ServerResponse {
	return &api.ServerResponse{
		Status:     "OK",
		ServerKey:  "hIrUkQdTIf1z3nIx1yxoOPkf5XOYmfkgcwy6fIA6bHA=",
		ServerPort: 1337,
		ServerIP:   "10.20.30.40",
		ServerVIP:  "10.7.0.1",
		PeerIP:     "10.7.0.42",
		DNSServers: []string{"10.0.0.243", "10.0.0.242"},
	}
}

func TestNewNetworkSettings(t *testing.T) {
	settings, err := NewNetworkSettings(testResponse(), configuration.New(nil, 1420))
	require.NoError(t, err)

	assert.Equal(t, &NetworkSettings{
		TunnelRemoteAddress: "10.20.30.40",
		IPv4Addresses:       []string{"10.7.0.42"},
		IPv4SubnetMasks:     []string{"255.255.255.255"},
		IncludedRoutes:      []string{"0.0.0.0/0"},
		DNSServers:          []string{"10.0.0.243", "10.0.0.242"},
		MTU:                 1420,
	}, settings)
}

func TestNewNetworkSettings_CustomDNS(t *testing.T) {
	settings, err := NewNetworkSettings(testResponse(), configuration.New([]string{"1.1.1.1"}, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1.1.1"}, settings.DNSServers)
	assert.Equal(t, configuration.DefaultMTU, settings.MTU)
}

func TestNewNetworkSettings_Errors(t *testing.T) {
	_, err := NewNetworkSettings(nil, nil)
	assert.Error(t, err)

	resp := testResponse()
	resp.ServerIP = ""
	_, err = NewNetworkSettings(resp, nil)
	assert.ErrorIs(t, err, api.ErrRemoteAddressNotFound)

	resp = testResponse()
	resp.PeerIP = "fd00::2"
	_, err = NewNetworkSettings(resp, nil)
	assert.Error(t, err)
}
