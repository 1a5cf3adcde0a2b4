// Command wasmhost is a manual-testing CLI for the host-guest boundary:
// validate a candidate module against the static checker, run a single
// invocation against an in-memory backend, or serve the debug HTTP
// surface. It mirrors cmd/synnergy/main.go's root-command +
// AddCommand(subCmd()) layout.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{Use: "wasmhost", Short: "wasm smart-contract host runtime"}
	rootCmd.PersistentFlags().String("config-env", "", "environment config overlay to merge (e.g. \"prod\")")
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
