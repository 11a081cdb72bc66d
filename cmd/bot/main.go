package main

import (
	"context"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ykvlv/birthday-bot/internal/app"
	"github.com/ykvlv/birthday-bot/internal/config"
	"github.com/ykvlv/birthday-bot/internal/logger"
)

func main() {
	scanOnce := pflag.Bool("scan-once", false, "run one birthday scan and exit")
	scanDate := pflag.String("scan-date", "", "reference date DD-MM-YYYY for --scan-once (default: today in SCHEDULER_TZ)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		// No logger yet; exit immediately.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	// Ensure logger flush; ignore sync error (common on some platforms).
	defer func() { _ = log.Sync() }()

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}

	if *scanOnce {
		date, err := application.ScanDate(*scanDate)
		if err != nil {
			log.Fatal("bad --scan-date", zap.Error(err))
		}
		rep, err := application.RunScanOnce(context.Background(), date)
		if err != nil {
			log.Fatal("scan failed", zap.Error(err))
		}
		log.Info("scan finished",
			zap.String("runID", rep.RunID),
			zap.String("date", rep.Date),
			zap.Int("matched", rep.Matched),
			zap.Int("sent", rep.Sent),
			zap.Int("failed", rep.Failed),
			zap.Int("skipped", rep.Skipped),
		)
		return
	}

	if err := application.Run(context.Background()); err != nil {
		log.Fatal("app run failed", zap.Error(err))
	}
}
