package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Commencement-Technology/mobile-ios-wireguard/version"
)

var (
	printNumber bool
	checkUpdate bool
	releaseURL  string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "prints the module version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if printNumber {
				cmd.Println(formatNumber(version.Number()))
			} else {
				cmd.Println(version.String())
			}

			if !checkUpdate {
				return nil
			}

			u := version.NewUpdate(releaseURL, nil)
			if _, err := u.FetchLatest(cmd.Context()); err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if u.IsUpdateAvailable() {
				cmd.Printf("a new version is available: %s\n", u.LastAvailable())
			} else {
				cmd.Println("up to date")
			}
			return nil
		},
	}
)

func init() {
	versionCmd.Flags().BoolVar(&printNumber, "number", false, "print the numeric version instead of the version label")
	versionCmd.Flags().BoolVar(&checkUpdate, "check-update", false, "check whether a newer release is available")
	versionCmd.Flags().StringVar(&releaseURL, "release-url", version.DefaultReleaseURL, "URL serving the latest released version")
}

// formatNumber keeps the fractional part visible, 1 is printed as 1.0
func formatNumber(n float64) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
