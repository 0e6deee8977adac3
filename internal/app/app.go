// Package app wires configuration into a runnable web client.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lowvie/internal/accountlink"
	"lowvie/internal/alternatives"
	"lowvie/internal/analysis"
	"lowvie/internal/api"
	"lowvie/internal/api/handlers"
	"lowvie/internal/backend"
	"lowvie/internal/email"
	"lowvie/internal/metrics"
	"lowvie/internal/models"
	"lowvie/internal/upload"
	"lowvie/internal/workflow"
	"lowvie/pkg/auth"
	"lowvie/pkg/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sweepInterval = time.Minute

type App struct {
	cfg     *config.Config
	fiber   *fiber.App
	store   *workflow.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

type Option func(*options)

type options struct {
	opener     accountlink.Opener
	httpClient *http.Client
}

// WithOpener replaces the browser script opener, for tests.
func WithOpener(opener accountlink.Opener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := options{
		opener: accountlink.NewScriptOpener(cfg.Link.ScriptURL),
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := metrics.New()

	clientOpts := []backend.Option{backend.WithObserver(m)}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, backend.WithHTTPClient(o.httpClient))
	}
	client := backend.NewClient(&cfg.Backend, logger.Named("backend"), clientOpts...)

	templates := email.NewTemplates(cfg.Email.Signature)

	var finder alternatives.Finder = client
	if cfg.Alternatives.Source == "catalog" {
		catalog, err := alternatives.NewCatalog()
		if err != nil {
			return nil, fmt.Errorf("failed to load alternatives catalog: %w", err)
		}
		finder = catalog
	}

	var drafter email.Drafter = client
	if cfg.Email.DraftStrategy == "template" {
		drafter = email.NewTemplateDrafter(templates)
	}

	policy := upload.ParsePolicy(cfg.Upload.Policy)
	linkCfg := accountlink.Config{
		ClientID:    cfg.Link.ClientID,
		Environment: cfg.Link.Environment,
		Product:     cfg.Link.Product,
		EntryPoint:  cfg.Link.EntryPoint,
		MerchantIDs: cfg.Link.MerchantIDs,
		Mode:        accountlink.ParseTransactionsMode(cfg.Link.TransactionsMode),
		SyncLimit:   cfg.Link.SyncLimit,
	}
	shellOpts := workflow.Options{
		MinLoading: cfg.Workflow.MinLoading,
		Observers: []workflow.Observer{
			m.ObserveTransition,
			workflow.LogTransitions(logger.Named("workflow")),
		},
	}

	newPage := func(id string) *workflow.Page {
		m.PageCreated()
		pageLogger := logger.With(zap.String("page_id", id))

		newView := func(result *models.AnalysisResult) *analysis.View {
			return analysis.NewView(result, finder, drafter, templates, pageLogger.Named("analysis"))
		}
		shell := workflow.NewShell(id, client, newView, shellOpts, logger.Named("workflow"))
		uploadWidget := upload.NewWidget(policy, shell.OnFileUpload, pageLogger.Named("upload"))

		resubmit := func(file upload.File) error {
			return uploadWidget.Select([]upload.File{file})
		}
		link := accountlink.NewWidget(linkCfg, cfg.Link.ExternalUserID, client, client, o.opener, resubmit, pageLogger.Named("accountlink"))
		link.OnConnected(func() {
			pageLogger.Info("Merchant account connected")
		})

		return &workflow.Page{
			ID:     id,
			Shell:  shell,
			Upload: uploadWidget,
			Link:   link,
		}
	}

	store := workflow.NewStore(cfg.Workflow.TTL, newPage, logger.Named("store"))
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.Workflow.TTL)

	router := api.SetupRouter(
		handlers.NewPageHandler(store, tokens, logger.Named("pages")),
		handlers.NewAPIHandler(store, logger.Named("api")),
		tokens,
		m.Handler(),
		api.RouterConfig{
			BodyLimit:  cfg.Server.BodyLimit,
			RequestLog: cfg.Logger.Level == "debug",
		},
		logger,
	)

	return &App{
		cfg:     cfg,
		fiber:   router,
		store:   store,
		metrics: m,
		logger:  logger,
	}, nil
}

func (a *App) Fiber() *fiber.App {
	return a.fiber
}

func (a *App) Store() *workflow.Store {
	return a.store
}

// Run serves until ctx is cancelled, then shuts the server down and closes
// every live page.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + a.cfg.Server.Port
		a.logger.Info("Server starting", zap.String("address", addr))
		if err := a.fiber.Listen(addr); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.store.Run(ctx, sweepInterval)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Shutting down server")
		if err := a.fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
