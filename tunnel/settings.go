package tunnel

import (
	"fmt"
	"net/netip"

	"github.com/Commencement-Technology/mobile-ios-wireguard/api"
	"github.com/Commencement-Technology/mobile-ios-wireguard/configuration"
)

const hostMask = "255.255.255.255"

// DefaultRoute sends all IPv4 traffic through the tunnel
var DefaultRoute = netip.MustParsePrefix("0.0.0.0/0")

// NetworkSettings are the interface settings the packet tunnel applies before
// starting the backend
type NetworkSettings struct {
	TunnelRemoteAddress string   `json:"tunnelRemoteAddress" yaml:"tunnelRemoteAddress"`
	IPv4Addresses       []string `json:"ipv4Addresses" yaml:"ipv4Addresses"`
	IPv4SubnetMasks     []string `json:"ipv4SubnetMasks" yaml:"ipv4SubnetMasks"`
	IncludedRoutes      []string `json:"includedRoutes" yaml:"includedRoutes"`
	DNSServers          []string `json:"dnsServers" yaml:"dnsServers"`
	MTU                 int      `json:"mtu" yaml:"mtu"`
}

// NewNetworkSettings derives the settings from a validated server response.
// Custom DNS servers take precedence over the ones announced by the server.
func NewNetworkSettings(resp *api.ServerResponse, cfg *configuration.Configuration) (*NetworkSettings, error) {
	if resp == nil {
		return nil, fmt.Errorf("no server response")
	}
	if resp.ServerIP == "" {
		return nil, api.ErrRemoteAddressNotFound
	}

	peer, err := resp.PeerAddr()
	if err != nil {
		return nil, err
	}
	if !peer.Is4() {
		return nil, fmt.Errorf("peer address %s is not IPv4", peer)
	}

	mtu := configuration.DefaultMTU
	var dns []string
	if cfg != nil {
		if cfg.PacketSize > 0 {
			mtu = cfg.PacketSize
		}
		dns = append(dns, cfg.CustomDNSServers...)
	}
	if len(dns) == 0 {
		dns = append(dns, resp.DNSServers...)
	}

	return &NetworkSettings{
		TunnelRemoteAddress: resp.ServerIP,
		IPv4Addresses:       []string{peer.String()},
		IPv4SubnetMasks:     []string{hostMask},
		IncludedRoutes:      []string{DefaultRoute.String()},
		DNSServers:          dns,
		MTU:                 mtu,
	}, nil
}
