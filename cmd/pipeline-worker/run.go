package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	apiserver "github.com/janavarta/news-platform/internal/api_server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline worker loop with the ops server",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := buildWorker()
		if err != nil {
			return err
		}
		defer w.store.Close()

		log := zap.S().Named("worker")
		log.Info("starting pipeline worker")
		defer log.Info("pipeline worker stopped")

		ctx, cancel := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go func() {
			defer cancel()
			listener, err := net.Listen("tcp", w.cfg.Service.OpsAddress)
			if err != nil {
				log.Errorf("creating ops listener: %v", err)
				return
			}
			server := apiserver.NewOpsServer(w.cfg.Service.OpsAddress, listener)
			if err := server.Run(ctx); err != nil {
				log.Errorf("ops server: %v", err)
			}
		}()

		w.runner.Run(ctx)
		return nil
	},
}
