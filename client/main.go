package main

import (
	"os"

	"github.com/Commencement-Technology/mobile-ios-wireguard/client/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
