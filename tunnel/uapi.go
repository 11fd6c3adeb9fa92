package tunnel

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/Commencement-Technology/mobile-ios-wireguard/api"
)

// DefaultKeepAlive is the persistent keepalive interval announced for the server peer
const DefaultKeepAlive = 25 * time.Second

// DeviceConfig builds the WireGuard configuration for a single server peer
// routing all IPv4 traffic
func DeviceConfig(privateKey wgtypes.Key, resp *api.ServerResponse) (wgtypes.Config, error) {
	server, err := ServerPeer(resp)
	if err != nil {
		return wgtypes.Config{}, err
	}

	peer, err := peerConfig(server)
	if err != nil {
		return wgtypes.Config{}, err
	}

	return wgtypes.Config{
		PrivateKey:   &privateKey,
		ReplacePeers: true,
		Peers:        []wgtypes.PeerConfig{peer},
	}, nil
}

// UAPIConfig renders the configuration handed to the WireGuard backend in the
// userspace API text format
func UAPIConfig(privateKey wgtypes.Key, resp *api.ServerResponse) (string, error) {
	cfg, err := DeviceConfig(privateKey, resp)
	if err != nil {
		return "", err
	}
	return MarshalUAPI(cfg), nil
}

// MarshalUAPI renders a device configuration as UAPI set operations
func MarshalUAPI(cfg wgtypes.Config) string {
	var b strings.Builder

	if cfg.PrivateKey != nil {
		writeKV(&b, "private_key", hex.EncodeToString((*cfg.PrivateKey)[:]))
	}
	if cfg.ListenPort != nil {
		writeKV(&b, "listen_port", fmt.Sprint(*cfg.ListenPort))
	}
	if cfg.FirewallMark != nil {
		writeKV(&b, "fwmark", fmt.Sprint(*cfg.FirewallMark))
	}
	if cfg.ReplacePeers {
		writeKV(&b, "replace_peers", "true")
	}

	for _, peer := range cfg.Peers {
		writeKV(&b, "public_key", hex.EncodeToString(peer.PublicKey[:]))
		if peer.Remove {
			writeKV(&b, "remove", "true")
			continue
		}
		if peer.UpdateOnly {
			writeKV(&b, "update_only", "true")
		}
		if peer.PresharedKey != nil {
			writeKV(&b, "preshared_key", hex.EncodeToString((*peer.PresharedKey)[:]))
		}
		if peer.Endpoint != nil {
			writeKV(&b, "endpoint", peer.Endpoint.String())
		}
		if peer.PersistentKeepaliveInterval != nil {
			writeKV(&b, "persistent_keepalive_interval", fmt.Sprint(int(peer.PersistentKeepaliveInterval.Seconds())))
		}
		if peer.ReplaceAllowedIPs {
			writeKV(&b, "replace_allowed_ips", "true")
		}
		for _, allowed := range peer.AllowedIPs {
			writeKV(&b, "allowed_ip", allowed.String())
		}
	}

	return b.String()
}

func writeKV(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteByte('\n')
}
