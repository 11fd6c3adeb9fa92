package tunnel

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/Commencement-Technology/mobile-ios-wireguard/api"
	"github.com/Commencement-Technology/mobile-ios-wireguard/model"
)

// ServerPeer describes the server of a registration as a peer routing all IPv4 traffic
func ServerPeer(resp *api.ServerResponse) (*model.PeerConfiguration, error) {
	serverKey, err := resp.ServerPublicKey()
	if err != nil {
		return nil, err
	}

	endpoint, err := resp.ServerAddrPort()
	if err != nil {
		return nil, err
	}

	peer, err := model.NewPeerConfiguration(serverKey[:])
	if err != nil {
		return nil, err
	}

	keepAlive := uint16(DefaultKeepAlive / time.Second)
	peer.Endpoint = &model.Endpoint{Host: endpoint.Addr().String(), Port: endpoint.Port()}
	peer.PersistentKeepAlive = &keepAlive
	peer.AllowedIPs = []netip.Prefix{DefaultRoute}
	return peer, nil
}

// peerConfig converts a peer to the form applied to a WireGuard device. The
// allowed IPs replace the ones already configured.
func peerConfig(peer *model.PeerConfiguration) (wgtypes.PeerConfig, error) {
	publicKey, err := wgtypes.NewKey(peer.PublicKey)
	if err != nil {
		return wgtypes.PeerConfig{}, fmt.Errorf("%w: %v", model.ErrInvalidPublicKey, err)
	}

	cfg := wgtypes.PeerConfig{
		PublicKey:         publicKey,
		ReplaceAllowedIPs: true,
	}

	if peer.PreSharedKey != nil {
		psk, err := wgtypes.NewKey(peer.PreSharedKey)
		if err != nil {
			return wgtypes.PeerConfig{}, fmt.Errorf("%w: %v", model.ErrInvalidPreSharedKey, err)
		}
		cfg.PresharedKey = &psk
	}

	if peer.Endpoint != nil {
		addr, ok := peer.Endpoint.Addr()
		if !ok {
			return wgtypes.PeerConfig{}, fmt.Errorf("%w: %s is not an IP address", model.ErrInvalidEndpoint, peer.Endpoint)
		}
		cfg.Endpoint = net.UDPAddrFromAddrPort(netip.AddrPortFrom(addr, peer.Endpoint.Port))
	}

	if peer.PersistentKeepAlive != nil {
		interval := time.Duration(*peer.PersistentKeepAlive) * time.Second
		cfg.PersistentKeepaliveInterval = &interval
	}

	for _, prefix := range peer.AllowedIPs {
		cfg.AllowedIPs = append(cfg.AllowedIPs, net.IPNet{
			IP:   prefix.Addr().AsSlice(),
			Mask: net.CIDRMask(prefix.Bits(), prefix.Addr().BitLen()),
		})
	}

	return cfg, nil
}
