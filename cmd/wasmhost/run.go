package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var entrypoint string
	var gasLimit uint64
	var readonly bool
	var payloadHex string

	cmd := &cobra.Command{
		Use:   "run <module.wasm>",
		Short: "instantiate a module and invoke one entrypoint against a fresh in-memory backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read module: %w", err)
			}
			payload, err := hex.DecodeString(payloadHex)
			if err != nil {
				return fmt.Errorf("decode --payload: %w", err)
			}

			host, _, err := buildHost(cmd)
			if err != nil {
				return err
			}

			b, _, err := emptyBackend()
			if err != nil {
				return err
			}

			handle, err := host.Instantiate(code, gasLimit, entrypoint, b, readonly)
			if err != nil {
				return fmt.Errorf("instantiate: %w", err)
			}
			defer handle.Close()

			rec, callErr := handle.Call(payload)
			fmt.Fprintf(cmd.OutOrStdout(), "status=%v gas_used=%d\n", rec.Status, rec.GasUsed)
			if rec.Status {
				fmt.Fprintf(cmd.OutOrStdout(), "return_data=%s\n", hex.EncodeToString(rec.ReturnData))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "kind=%v error=%s\n", rec.Kind, rec.Error)
			}
			return callErr
		},
	}
	cmd.Flags().StringVar(&entrypoint, "entrypoint", "execute", "exported function to invoke")
	cmd.Flags().Uint64Var(&gasLimit, "gas", 30_000_000, "gas limit for the invocation")
	cmd.Flags().BoolVar(&readonly, "readonly", false, "set the storage-readonly flag (use for query-style entrypoints)")
	cmd.Flags().StringVar(&payloadHex, "payload", "", "hex-encoded bytes written to the guest as the entrypoint's argument region")
	return cmd
}
