package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"springcli/internal/app"
	"springcli/internal/config"
	"springcli/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunStage(ctx, config.StageMerge, os.Args[1:], os.Stdout); err != nil {
		infrastructure.GetLogger().Error("stage failed", "stage", config.StageMerge, "error", err)
		stop()
		os.Exit(1)
	}
}
