package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Bandeaditi/mail-automated-system/internal/app"
	"github.com/Bandeaditi/mail-automated-system/internal/config"
	"github.com/Bandeaditi/mail-automated-system/internal/logging"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "run the full pipeline but never hand anything to the transport")
	watch := flag.Bool("watch", false, "block on new-mail notifications (gmail provider only)")
	userContext := flag.String("context", "", "extra context passed to reply generation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, *dryRun)
	if err != nil {
		logger.Fatalf("Failed to initialize app: %v", err)
	}
	defer application.Close()

	if *watch {
		if err := application.Watch(ctx, *userContext); err != nil {
			logger.Fatalf("Watch error: %v", err)
		}
		return
	}

	if err := application.Run(ctx, *userContext); err != nil {
		logger.Fatalf("Run error: %v", err)
	}
}
