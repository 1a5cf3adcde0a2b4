package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vortexchain/wasmhost/internal/instance"
)

func validateCmd() *cobra.Command {
	var entrypoint string
	var gasLimit uint64

	cmd := &cobra.Command{
		Use:   "validate <module.wasm>",
		Short: "run the static checker against a candidate module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read module: %w", err)
			}

			host, _, err := buildHost(cmd)
			if err != nil {
				return err
			}

			b, _, err := emptyBackend()
			if err != nil {
				return err
			}
			handle, err := host.Instantiate(code, gasLimit, entrypoint, b, true)
			if err != nil {
				if f, ok := err.(*instance.Fault); ok && f.Kind == instance.KindStaticValidation {
					fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s\n", f.Message)
					return nil
				}
				return err
			}
			defer handle.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "accepted")
			return nil
		},
	}
	cmd.Flags().StringVar(&entrypoint, "entrypoint", "", "require this export in addition to the ambient allocate/deallocate pair")
	cmd.Flags().Uint64Var(&gasLimit, "gas", 1_000_000, "gas limit used only to satisfy instantiation; validate never invokes the entrypoint")
	return cmd
}
