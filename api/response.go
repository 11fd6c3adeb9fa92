package api

import (
	"errors"
	"fmt"
	"net/netip"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

const statusOK = "OK"

var (
	ErrRemoteAddressNotFound = errors.New("remote address not found")
	ErrServerStatus          = errors.New("server rejected the key")
)

// ServerResponse is the body returned by /addKey
type ServerResponse struct {
	Status     string   `json:"status"`
	Message    string   `json:"message,omitempty"`
	ServerKey  string   `json:"server_key"`
	ServerPort int      `json:"server_port"`
	ServerIP   string   `json:"server_ip"`
	ServerVIP  string   `json:"server_vip"`
	PeerIP     string   `json:"peer_ip"`
	PeerPubKey string   `json:"peer_pubkey"`
	DNSServers []string `json:"dns_servers"`
}

// Validate checks that the response carries everything needed to configure a tunnel
func (r *ServerResponse) Validate() error {
	if r.Status != statusOK {
		if r.Message != "" {
			return fmt.Errorf("%w: status %q: %s", ErrServerStatus, r.Status, r.Message)
		}
		return fmt.Errorf("%w: status %q", ErrServerStatus, r.Status)
	}

	if r.ServerIP == "" {
		return ErrRemoteAddressNotFound
	}
	if _, err := netip.ParseAddr(r.ServerIP); err != nil {
		return fmt.Errorf("invalid server ip %q: %w", r.ServerIP, err)
	}

	if r.ServerPort <= 0 || r.ServerPort > 65535 {
		return fmt.Errorf("invalid server port %d", r.ServerPort)
	}

	if _, err := r.ServerPublicKey(); err != nil {
		return err
	}

	if _, err := r.PeerAddr(); err != nil {
		return err
	}

	for _, dns := range r.DNSServers {
		if _, err := netip.ParseAddr(dns); err != nil {
			return fmt.Errorf("invalid dns server %q: %w", dns, err)
		}
	}

	return nil
}

// ServerPublicKey decodes the server's base64 public key
func (r *ServerResponse) ServerPublicKey() (wgtypes.Key, error) {
	key, err := wgtypes.ParseKey(r.ServerKey)
	if err != nil {
		return wgtypes.Key{}, fmt.Errorf("invalid server key: %w", err)
	}
	return key, nil
}

// PeerAddr returns the address assigned to this peer inside the tunnel
func (r *ServerResponse) PeerAddr() (netip.Addr, error) {
	if prefix, err := netip.ParsePrefix(r.PeerIP); err == nil {
		return prefix.Addr(), nil
	}
	addr, err := netip.ParseAddr(r.PeerIP)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid peer ip %q: %w", r.PeerIP, err)
	}
	return addr, nil
}

// ServerAddrPort returns the WireGuard endpoint of the server
func (r *ServerResponse) ServerAddrPort() (netip.AddrPort, error) {
	addr, err := netip.ParseAddr(r.ServerIP)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("invalid server ip %q: %w", r.ServerIP, err)
	}
	return netip.AddrPortFrom(addr, uint16(r.ServerPort)), nil
}
