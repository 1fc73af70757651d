//go:build !windows

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/quidome/capturetime/pkg/batch"
)

// watchPause maps SIGUSR1 to pause and SIGUSR2 to resume until ctx ends.
func watchPause(ctx context.Context, pause *batch.PauseToken, logger *slog.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-ch:
				if sig == syscall.SIGUSR1 {
					pause.Pause()
					logger.Info("paused; send SIGUSR2 to resume")
				} else {
					pause.Resume()
					logger.Info("resumed")
				}
			}
		}
	}()
}
