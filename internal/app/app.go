package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ykvlv/birthday-bot/internal/birthday"
	"github.com/ykvlv/birthday-bot/internal/config"
	"github.com/ykvlv/birthday-bot/internal/domain"
	"github.com/ykvlv/birthday-bot/internal/metrics"
	"github.com/ykvlv/birthday-bot/internal/notifier"
	"github.com/ykvlv/birthday-bot/internal/scheduler"
	"github.com/ykvlv/birthday-bot/internal/store"
	"github.com/ykvlv/birthday-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	reg     *prometheus.Registry
	metrics *metrics.Metrics
	httpSrv *http.Server

	repo      store.Repo
	scheduler *scheduler.Scheduler
	router    *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      opsHandler(reg),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, reg: reg, metrics: metrics.New(reg), httpSrv: srv}, nil
}

// opsHandler serves liveness and Prometheus metrics.
func opsHandler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}

// wire opens the store and builds every component that depends on it.
func (a *App) wire(ctx context.Context) error {
	repo, err := store.Open(ctx, store.Options{
		Driver:   a.cfg.StoreDriver,
		DBPath:   a.cfg.DBPath,
		MongoURI: a.cfg.MongoURI,
		MongoDB:  a.cfg.MongoDB,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", a.cfg.StoreDriver, err)
	}
	a.repo = repo
	a.log.Info("store ready", zap.String("driver", a.cfg.StoreDriver))

	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}
	atM, err := a.cfg.ScanMinutes()
	if err != nil {
		return err
	}

	client := telegram.NewClient(a.bot)
	n := notifier.New(client, a.log, a.cfg.SendTimeout)
	a.scheduler = scheduler.New(repo, n, a.log, a.metrics, scheduler.Options{
		Location:  loc,
		AtMinutes: atM,
	})
	a.log.Info("scheduler ready",
		zap.String("tz", loc.String()),
		zap.String("scanAt", domain.FormatMinutes(atM)),
	)
	a.router = telegram.NewRouter(client, a.log, birthday.NewService(repo), repo, a.scheduler, a.metrics, telegram.Options{
		OwnerID: a.cfg.OwnerID,
		DocsURL: a.cfg.DocsURL,
		Timeout: a.cfg.SendTimeout,
	})

	if t, err := repo.CountTracked(ctx); err == nil {
		a.metrics.SetTracked(t.Users, t.Groups)
	}
	return nil
}

func (a *App) close() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.log.Warn("store close error", zap.Error(err))
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting birthday-bot",
		zap.String("store", a.cfg.StoreDriver),
		zap.String("http", a.cfg.HTTPAddr),
	)

	if err := a.wire(ctx); err != nil {
		a.log.Error("startup failed", zap.Error(err))
		a.close()
		return err
	}

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.scheduler.Run(ctx)
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.bot.StopReceivingUpdates()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}

			wg.Wait()
			a.close()
			return nil

		case upd := <-updCh:
			wg.Add(1)
			go func() {
				defer wg.Done()
				a.router.HandleUpdate(context.WithoutCancel(ctx), upd)
			}()
		}
	}
}

// RunScanOnce runs a single scan for date and returns its report without polling for updates.
func (a *App) RunScanOnce(ctx context.Context, date time.Time) (scheduler.Report, error) {
	if err := a.wire(ctx); err != nil {
		a.close()
		return scheduler.Report{}, err
	}
	defer a.close()

	rep, _ := a.scheduler.Trigger(ctx, date)
	return rep, nil
}

// ScanDate resolves the reference date for a one-off scan: today in the scheduler zone when
// value is empty, otherwise value parsed as DD-MM-YYYY.
func (a *App) ScanDate(value string) (time.Time, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return domain.LocalDate(time.Now(), loc), nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("scan date %q: %w", value, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), nil
}
