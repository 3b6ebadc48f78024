package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Process one batch of eligible work items and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := buildWorker()
		if err != nil {
			return err
		}
		defer w.store.Close()

		ctx, cancel := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGTERM)
		defer cancel()

		processed := w.runner.RunBatch(ctx)
		zap.S().Named("worker").Infof("processed %d work items", processed)
		return nil
	},
}
