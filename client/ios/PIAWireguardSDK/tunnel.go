package PIAWireguardSDK

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/Commencement-Technology/mobile-ios-wireguard/api"
	"github.com/Commencement-Technology/mobile-ios-wireguard/configuration"
	"github.com/Commencement-Technology/mobile-ios-wireguard/tunnel"
	"github.com/Commencement-Technology/mobile-ios-wireguard/util/pinnedroots"
)

// AddKeyListener is async listener for mobile framework
type AddKeyListener interface {
	OnSuccess(result *Result)
	OnError(err error)
}

// Result carries what the extension needs to bring the tunnel up
type Result struct {
	settings *tunnel.NetworkSettings
	uapi     string
	peerIP   string
}

// SettingsJSON returns the network settings encoded as JSON
func (r *Result) SettingsJSON() (string, error) {
	bs, err := json.Marshal(r.settings)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// UAPI returns the backend configuration in UAPI text format
func (r *Result) UAPI() string {
	return r.uapi
}

// TunnelRemoteAddress returns the server address the tunnel connects to
func (r *Result) TunnelRemoteAddress() string {
	return r.settings.TunnelRemoteAddress
}

// PeerIP returns the address assigned to this device inside the tunnel
func (r *Result) PeerIP() string {
	return r.peerIP
}

// MTU returns the tunnel packet size
func (r *Result) MTU() int {
	return r.settings.MTU
}

// TunnelSetup registers keys for a provider configuration
type TunnelSetup struct {
	cfg    *configuration.Configuration
	client *api.Client

	ctxCancel     context.CancelFunc
	ctxCancelLock sync.Mutex
}

// NewTunnelSetup parses the provider configuration dictionary, serialized as JSON,
// and the PEM or DER encoded certificate authority of the API servers
func NewTunnelSetup(providerConfigJSON string, caCertificate []byte) (*TunnelSetup, error) {
	var provider map[string]any
	if err := json.Unmarshal([]byte(providerConfigJSON), &provider); err != nil {
		return nil, fmt.Errorf("parse provider configuration: %w", err)
	}

	cfg, err := configuration.FromProviderConfiguration(provider)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := pinnedroots.FromBytes(caCertificate)
	if err != nil {
		return nil, fmt.Errorf("load certificate authority: %w", err)
	}

	return newTunnelSetup(cfg, api.NewClient(api.WithRootCAs(pool))), nil
}

func newTunnelSetup(cfg *configuration.Configuration, client *api.Client) *TunnelSetup {
	return &TunnelSetup{
		cfg:    cfg,
		client: client,
	}
}

// AddKey registers a new key with serverAddress. It is a blocking function,
// Stop aborts it.
func (t *TunnelSetup) AddKey(serverAddress string) (*Result, error) {
	ctx, cancel := t.newContext()
	defer cancel()
	return t.addKey(ctx, serverAddress)
}

// AddKeyAsync runs AddKey in the background and reports to listener. A Stop
// issued after AddKeyAsync returns aborts the registration.
func (t *TunnelSetup) AddKeyAsync(serverAddress string, listener AddKeyListener) {
	ctx, cancel := t.newContext()
	go func() {
		defer cancel()
		result, err := t.addKey(ctx, serverAddress)
		if err != nil {
			listener.OnError(err)
			return
		}
		listener.OnSuccess(result)
	}()
}

// Stop cancels the registration in flight. It has no effect when none is
// running, the next AddKey proceeds normally.
func (t *TunnelSetup) Stop() {
	t.ctxCancelLock.Lock()
	defer t.ctxCancelLock.Unlock()
	if t.ctxCancel == nil {
		return
	}
	t.ctxCancel()
	t.ctxCancel = nil
}

func (t *TunnelSetup) newContext() (context.Context, context.CancelFunc) {
	t.ctxCancelLock.Lock()
	defer t.ctxCancelLock.Unlock()
	ctx, cancel := context.WithCancel(context.Background())
	t.ctxCancel = cancel
	return ctx, cancel
}

func (t *TunnelSetup) addKey(ctx context.Context, serverAddress string) (*Result, error) {
	reg, err := t.client.AddKey(ctx, serverAddress, t.cfg)
	if err != nil {
		log.Errorf("add key failed: %v", err)
		return nil, err
	}

	settings, err := tunnel.NewNetworkSettings(reg.Response, t.cfg)
	if err != nil {
		return nil, err
	}

	uapi, err := tunnel.UAPIConfig(reg.Keys.PrivateKey, reg.Response)
	if err != nil {
		return nil, err
	}

	log.Infof("Configuring network settings")
	return &Result{settings: settings, uapi: uapi, peerIP: reg.Response.PeerIP}, nil
}
