package cmd

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Commencement-Technology/mobile-ios-wireguard/configuration"
	"github.com/Commencement-Technology/mobile-ios-wireguard/util"
)

var (
	token      string
	dnsServers []string
	packetSize int
	pingServer string
	commonName string
	serial     string
	useIP      bool
	force      bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "manage the WireGuard provider configuration",
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "writes a new configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configuration.New(dnsServers, packetSize)
			cfg.Token = token
			cfg.Ping = pingServer
			cfg.CN = commonName
			cfg.Serial = serial
			cfg.UseIP = useIP

			if err := cfg.Validate(); err != nil {
				return err
			}

			if util.FileExists(configPath) && !force {
				return fmt.Errorf("configuration %s already exists, use --force to overwrite it", configPath)
			}

			if err := configuration.Save(cmd.Context(), configPath, cfg); err != nil {
				return err
			}
			cmd.Printf("configuration written to %s\n", configPath)
			return nil
		},
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "prints the configuration with the token masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configuration.Load(configPath)
			if err != nil {
				return err
			}
			cfg.Token = maskToken(cfg.Token)

			out, err := yaml.Marshal(cfg.ProviderConfiguration())
			if err != nil {
				return fmt.Errorf("marshal configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	configRmCmd = &cobra.Command{
		Use:   "rm",
		Short: "removes the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := util.RemoveJson(configPath); err != nil {
				return err
			}
			log.Debugf("configuration %s removed", configPath)
			cmd.Printf("configuration %s removed\n", configPath)
			return nil
		},
	}
)

func init() {
	configInitCmd.Flags().StringVar(&token, "token", "", "PIA authentication token")
	configInitCmd.Flags().StringSliceVar(&dnsServers, "dns", nil, "custom DNS servers, the server provided ones are used when empty")
	configInitCmd.Flags().IntVar(&packetSize, "mtu", configuration.DefaultMTU, "tunnel packet size")
	configInitCmd.Flags().StringVar(&pingServer, "ping", "", "address pinged to check the tunnel health")
	configInitCmd.Flags().StringVar(&commonName, "cn", "", "certificate common name of the server, required with --use-ip")
	configInitCmd.Flags().StringVar(&serial, "serial", "", "server serial")
	configInitCmd.Flags().BoolVar(&useIP, "use-ip", false, "connect to the API by IP and verify the certificate against --cn")
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")
}

func maskToken(t string) string {
	if len(t) <= 4 {
		return strings.Repeat("*", len(t))
	}
	return t[:4] + strings.Repeat("*", len(t)-4)
}
