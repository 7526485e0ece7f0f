package main

import (
	"log/slog"
	"os"

	"github.com/aussiebroadwan/accounts/internal/auth/app"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize accounts service", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("accounts service stopped with error", "error", err)
		os.Exit(1)
	}
}
