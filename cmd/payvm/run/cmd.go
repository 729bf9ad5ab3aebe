// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luxfi/log"

	"github.com/luxfi/payvm/node"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Runs a payment validator",
		RunE:  runFunc,
	}
	AddFlags(c.Flags())
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	cfg, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}

	logger := log.NewLogger("payvm")
	n, err := node.New(cfg, logger)
	if err != nil {
		return err
	}

	errs := make(chan error, 1)
	go func() {
		errs <- n.Dispatch()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case sig := <-signals:
		logger.Info("shutting down", log.Stringer("signal", sig))
		if err := n.Shutdown(); err != nil {
			return err
		}
		return <-errs
	}
}
