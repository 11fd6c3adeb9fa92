package piawireguard

import (
	"github.com/Commencement-Technology/mobile-ios-wireguard/api"
	"github.com/Commencement-Technology/mobile-ios-wireguard/configuration"
	"github.com/Commencement-Technology/mobile-ios-wireguard/model"
	"github.com/Commencement-Technology/mobile-ios-wireguard/tunnel"
	"github.com/Commencement-Technology/mobile-ios-wireguard/version"
)

// VersionNumber returns the numeric version of the module build
func VersionNumber() float64 {
	return version.Number()
}

// VersionString returns the version label of the module build as bytes
func VersionString() []byte {
	return version.Bytes()
}

type (
	PeerConfiguration = model.PeerConfiguration
	Endpoint          = model.Endpoint
	Configuration     = configuration.Configuration
	Client            = api.Client
	ClientOption      = api.Option
	KeyPair           = api.KeyPair
	Registration      = api.Registration
	ServerResponse    = api.ServerResponse
	NetworkSettings   = tunnel.NetworkSettings
	Update            = version.Update
)

// Provider configuration keys
const (
	KeyDNSServers = configuration.KeyDNSServers
	KeyPacketSize = configuration.KeyPacketSize
	KeyToken      = configuration.KeyToken
	KeySerial     = configuration.KeySerial
	KeyPing       = configuration.KeyPing
	KeyUseIP      = configuration.KeyUseIP
	KeyCN         = configuration.KeyCN

	DefaultMTU = configuration.DefaultMTU
	RemotePort = configuration.RemotePort
	KeyLength  = model.KeyLength
)

var (
	NewPeerConfiguration      = model.NewPeerConfiguration
	ParseEndpoint             = model.ParseEndpoint
	NewConfiguration          = configuration.New
	FromProviderConfiguration = configuration.FromProviderConfiguration
	LoadConfiguration         = configuration.Load
	SaveConfiguration         = configuration.Save
	NewClient                 = api.NewClient
	WithRootCAs               = api.WithRootCAs
	WithHTTPClient            = api.WithHTTPClient
	WithPort                  = api.WithPort
	GenerateKeyPair           = api.GenerateKeyPair
	NewNetworkSettings        = tunnel.NewNetworkSettings
	UAPIConfig                = tunnel.UAPIConfig
	NewUpdate                 = version.NewUpdate
)

var (
	ErrInvalidPublicKey      = model.ErrInvalidPublicKey
	ErrInvalidPreSharedKey   = model.ErrInvalidPreSharedKey
	ErrTokenNotFound         = configuration.ErrTokenNotFound
	ErrRemoteAddressNotFound = api.ErrRemoteAddressNotFound
	ErrServerStatus          = api.ErrServerStatus
)
