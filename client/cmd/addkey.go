package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Commencement-Technology/mobile-ios-wireguard/api"
	"github.com/Commencement-Technology/mobile-ios-wireguard/configuration"
	"github.com/Commencement-Technology/mobile-ios-wireguard/tunnel"
	"github.com/Commencement-Technology/mobile-ios-wireguard/util"
	"github.com/Commencement-Technology/mobile-ios-wireguard/util/pinnedroots"
)

var (
	serverAddress string
	caFile        string
	apiPort       int
	outputFormat  string
	uapiFile      string
	settingsFile  string

	addKeyCmd = &cobra.Command{
		Use:   "addkey",
		Short: "registers a new WireGuard key with a PIA server",
		Long: "Generates a WireGuard key pair, registers the public key with the server " +
			"and prints the network settings for the tunnel. The backend configuration " +
			"is written in UAPI format to --uapi-file.",
		RunE: addKeyFunc,
	}
)

func init() {
	addKeyCmd.Flags().StringVar(&serverAddress, "server", "", "PIA WireGuard server host name or IP")
	addKeyCmd.Flags().StringVar(&caFile, "ca-file", "", "PEM or DER encoded PIA certificate authority")
	addKeyCmd.Flags().IntVar(&apiPort, "api-port", configuration.RemotePort, "PIA WireGuard API port")
	addKeyCmd.Flags().StringVarP(&outputFormat, outputFlag, "o", outputJSON, "network settings output format [json|yaml]")
	addKeyCmd.Flags().StringVar(&uapiFile, "uapi-file", "", "file receiving the UAPI configuration. Printed after the settings when empty")
	addKeyCmd.Flags().StringVar(&settingsFile, "settings-file", "", "file also receiving the network settings as JSON")
	_ = addKeyCmd.MarkFlagRequired("server")
	_ = addKeyCmd.MarkFlagRequired("ca-file")
}

type addKeyResult struct {
	Settings *tunnel.NetworkSettings
	UAPI     string
}

func addKeyFunc(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	SetupCloseHandler(ctx, cancel)

	cfg, err := configuration.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration %s: %w", configPath, err)
	}

	pool, err := pinnedroots.New(caFile).Get()
	if err != nil {
		return fmt.Errorf("load certificate authority: %w", err)
	}

	result, err := addKey(ctx, api.NewClient(api.WithRootCAs(pool), api.WithPort(apiPort)), serverAddress, cfg)
	if err != nil {
		return err
	}

	if err := printSettings(cmd.OutOrStdout(), outputFormat, result.Settings); err != nil {
		return err
	}

	if settingsFile != "" {
		if err := util.WriteJson(ctx, settingsFile, result.Settings); err != nil {
			return fmt.Errorf("write network settings: %w", err)
		}
		log.Infof("network settings written to %s", settingsFile)
	}

	if uapiFile == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), result.UAPI)
		return err
	}

	if err := util.WriteBytes(ctx, uapiFile, []byte(result.UAPI)); err != nil {
		return fmt.Errorf("write uapi configuration: %w", err)
	}
	log.Infof("UAPI configuration written to %s", uapiFile)
	return nil
}

func addKey(ctx context.Context, client *api.Client, server string, cfg *configuration.Configuration) (*addKeyResult, error) {
	reg, err := client.AddKey(ctx, server, cfg)
	if err != nil {
		return nil, err
	}

	settings, err := tunnel.NewNetworkSettings(reg.Response, cfg)
	if err != nil {
		return nil, fmt.Errorf("network settings: %w", err)
	}

	uapi, err := tunnel.UAPIConfig(reg.Keys.PrivateKey, reg.Response)
	if err != nil {
		return nil, fmt.Errorf("uapi configuration: %w", err)
	}

	return &addKeyResult{Settings: settings, UAPI: uapi}, nil
}

func printSettings(w io.Writer, format string, settings *tunnel.NetworkSettings) error {
	var out []byte
	var err error
	switch format {
	case outputJSON:
		out, err = json.MarshalIndent(settings, "", "  ")
		out = append(out, '\n')
	case outputYAML:
		out, err = yaml.Marshal(settings)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = w.Write(out)
	return err
}
