// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/payvm/cmd/payvm/run"
)

func main() {
	cmd := &cobra.Command{
		Use:   "payvm",
		Short: "BFT payment validator with single-round-trip finality",
	}
	cmd.AddCommand(run.Command())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
