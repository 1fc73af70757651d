//go:build windows

package main

import (
	"context"
	"log/slog"

	"github.com/quidome/capturetime/pkg/batch"
)

// Windows has no user signals; extraction can only be cancelled.
func watchPause(context.Context, *batch.PauseToken, *slog.Logger) {}
