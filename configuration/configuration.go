package configuration

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	piaerrors "github.com/Commencement-Technology/mobile-ios-wireguard/client/errors"
	"github.com/Commencement-Technology/mobile-ios-wireguard/util"
)

// Provider configuration keys shared with the app
const (
	KeyDNSServers = "customDNSServers"
	KeyPacketSize = "packetSize"
	KeyToken      = "token"
	KeySerial     = "serial"
	KeyPing       = "ping"
	KeyUseIP      = "use_ip"
	KeyCN         = "cn"
)

const (
	// DefaultMTU is used when no packet size is configured
	DefaultMTU = 1280
	// RemotePort is the port of the PIA WireGuard API
	RemotePort = 1337

	minPacketSize = 576
	maxPacketSize = 65535
)

var (
	ErrTokenNotFound      = errors.New("pia auth token not found")
	ErrDNSServersNotFound = errors.New("dnsServer not found")
	ErrPingNotFound       = errors.New("ping server not found")
)

// Configuration is what the app hands to the tunnel to establish a connection
type Configuration struct {
	CustomDNSServers []string `json:"customDNSServers"`
	PacketSize       int      `json:"packetSize"`
	Token            string   `json:"token"`
	Serial           string   `json:"serial,omitempty"`
	Ping             string   `json:"ping"`
	CN               string   `json:"cn,omitempty"`
	UseIP            bool     `json:"use_ip"`
}

// New creates a configuration with the given DNS servers and packet size
func New(customDNSServers []string, packetSize int) *Configuration {
	if packetSize <= 0 {
		packetSize = DefaultMTU
	}
	return &Configuration{
		CustomDNSServers: customDNSServers,
		PacketSize:       packetSize,
	}
}

// FromProviderConfiguration reads the provider dictionary. Missing required keys
// are reported together.
func FromProviderConfiguration(provider map[string]any) (*Configuration, error) {
	var merr *multierror.Error
	cfg := &Configuration{PacketSize: DefaultMTU}

	token, ok := provider[KeyToken].(string)
	if !ok {
		merr = multierror.Append(merr, ErrTokenNotFound)
	}
	cfg.Token = token

	dns, ok := stringSlice(provider[KeyDNSServers])
	if !ok {
		merr = multierror.Append(merr, ErrDNSServersNotFound)
	}
	cfg.CustomDNSServers = dns

	ping, ok := provider[KeyPing].(string)
	if !ok {
		merr = multierror.Append(merr, ErrPingNotFound)
	}
	cfg.Ping = ping

	if size, ok := intValue(provider[KeyPacketSize]); ok {
		cfg.PacketSize = size
	}

	cfg.Serial, _ = provider[KeySerial].(string)
	cfg.CN, _ = provider[KeyCN].(string)
	cfg.UseIP, _ = provider[KeyUseIP].(bool)

	if err := piaerrors.FormatErrorOrNil(merr); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProviderConfiguration renders the configuration back into a provider dictionary
func (c *Configuration) ProviderConfiguration() map[string]any {
	provider := map[string]any{
		KeyDNSServers: append([]string{}, c.CustomDNSServers...),
		KeyPacketSize: c.PacketSize,
		KeyToken:      c.Token,
		KeyPing:       c.Ping,
		KeyUseIP:      c.UseIP,
	}
	if c.Serial != "" {
		provider[KeySerial] = c.Serial
	}
	if c.CN != "" {
		provider[KeyCN] = c.CN
	}
	return provider
}

// Validate checks the values, reporting every problem found
func (c *Configuration) Validate() error {
	var merr *multierror.Error

	if c.Token == "" {
		merr = multierror.Append(merr, ErrTokenNotFound)
	}

	if c.Ping == "" {
		merr = multierror.Append(merr, ErrPingNotFound)
	}

	for _, server := range c.CustomDNSServers {
		if _, err := netip.ParseAddr(server); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("invalid DNS server %q: %w", server, err))
		}
	}

	if c.PacketSize < minPacketSize || c.PacketSize > maxPacketSize {
		merr = multierror.Append(merr, fmt.Errorf("packet size %d out of range [%d, %d]", c.PacketSize, minPacketSize, maxPacketSize))
	}

	if c.UseIP && c.CN == "" {
		merr = multierror.Append(merr, errors.New("cn not found: required when connecting by IP"))
	}

	return piaerrors.FormatErrorOrNil(merr)
}

// Load reads a configuration file
func Load(path string) (*Configuration, error) {
	cfg := &Configuration{}
	if _, err := util.ReadJson(path, cfg); err != nil {
		return nil, fmt.Errorf("read configuration %s: %w", path, err)
	}
	if cfg.PacketSize == 0 {
		cfg.PacketSize = DefaultMTU
	}
	return cfg, nil
}

// Save writes the configuration with owner only permissions, the file holds the auth token
func Save(ctx context.Context, path string, cfg *Configuration) error {
	if err := util.WriteJsonWithRestrictedPermission(ctx, path, cfg); err != nil {
		return fmt.Errorf("write configuration %s: %w", path, err)
	}
	log.Debugf("configuration saved to %s", path)
	return nil
}

func stringSlice(v any) ([]string, bool) {
	switch values := v.(type) {
	case []string:
		return values, true
	case []any:
		out := make([]string, 0, len(values))
		for _, value := range values {
			s, ok := value.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// intValue accepts the numeric types a decoded dictionary may carry
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
