// Package cli implements the interactive register console: selling, queue
// inspection, manual sync triggers and the merged shift history view.
package cli

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/dmitrijs2005/possync/internal/logging"
	"github.com/dmitrijs2005/possync/internal/pos/client"
	"github.com/dmitrijs2005/possync/internal/pos/config"
	"github.com/dmitrijs2005/possync/internal/pos/services"
	"github.com/dmitrijs2005/possync/internal/pos/store"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	queue   services.QueueService
	catalog services.CatalogService
	syncer  services.SyncService
	history services.HistoryService
	api     client.Client
	log     logging.Logger
	store   *store.Store
	Mode    Mode
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewDefault()

	st, err := store.NewOpener(c.DatabasePath).Open(ctx)
	if err != nil {
		log.Error(ctx, "error initializing local store", "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerBaseURL, c.APIToken, c.RequestTimeout)

	return &App{
		config:  c,
		queue:   services.NewQueueService(st.Pending),
		catalog: services.NewCatalogService(api, st.Products, log),
		syncer: services.NewSyncService(api, st.Pending, log, services.SyncOptions{
			AttemptTimeout:       c.RequestTimeout,
			MaxAttemptsPerRecord: uint64(c.MaxAttemptsPerDrain),
		}),
		history: services.NewHistoryService(api, st.Pending, log),
		api:     api,
		log:     log,
		store:   st,
		Mode:    ModeOffline,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.Mode == mode {
		return
	}
	a.Mode = mode
	a.log.Info(ctx, "connectivity changed", "mode", mode)

	// regained network is a drain trigger
	if mode == ModeOnline {
		go func() {
			if _, err := a.syncer.Drain(ctx); err != nil {
				a.log.Error(ctx, "drain after reconnect failed", "error", err)
			}
		}()
	}
}

// StartOnlineStatusWatcher probes server reachability on the configured
// interval and flips the offline/online mode accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
			err := a.api.Ping(pingCtx)
			cancel()
			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.store.Close() }()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	go a.syncer.StartAutoSync(ctx, a.config.SyncInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) getStatus() string {
	return string(a.Mode)
}
