package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lovesim/internal/config"
	"github.com/abhisek/lovesim/internal/evaluation"
	"github.com/abhisek/lovesim/internal/llm"
	"github.com/abhisek/lovesim/internal/logging"
	"github.com/abhisek/lovesim/internal/metrics"
	"github.com/abhisek/lovesim/internal/ops"
	"github.com/abhisek/lovesim/internal/quiz"
	"github.com/abhisek/lovesim/internal/result"
	"github.com/abhisek/lovesim/internal/scenario"
	"github.com/abhisek/lovesim/internal/server"
	"github.com/abhisek/lovesim/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd)
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().String("addr", "", "Listen address (overrides LOVESIM_ADDR)")
		c.Flags().String("provider", "", "LLM provider: anthropic, openai, gemini, openrouter or mock")
	}
}

// serve wires the orchestrators and runs the server until SIGINT/SIGTERM.
func serve(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	llmCfg, err := resolveLLMConfig(cmd)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	var eventRepo store.EventRepo
	if cfg.Store.EventLog {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		eventRepo = st.EventRepo()
		logger.Info("llm event log enabled", zap.String("db", dbPath))
	}

	m := metrics.New()
	memory := llm.NewMemory(cfg.Quiz.MemoryLimit)
	provider, err := llm.NewProvider(ctx, llmCfg, eventRepo, memory)
	if err != nil {
		return err
	}
	provider = m.WrapProvider(provider)

	images, err := llm.NewImageGenerator(llmCfg)
	if err != nil {
		return err
	}
	images = m.WrapImageGenerator(images)

	events := ops.NewBus(cfg.Quiz.EventCapacity)
	scenarios := scenario.New(provider, images, events, scenario.DefaultConfig())
	grader := evaluation.New(provider, events, evaluation.DefaultConfig())
	reporter := result.New(provider, events)
	quizzes := quiz.NewStore()

	handler := server.New(server.Deps{
		Scenarios:      scenarios,
		Grader:         grader,
		Reporter:       reporter,
		Quiz:           quiz.NewService(scenarios, grader, reporter, quizzes, memory, events),
		Events:         events,
		Metrics:        m,
		Logger:         logger,
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	httpServer := newHTTPServer(ctx, cfg.Server.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("provider", llmCfg.Provider),
			zap.String("model", provider.ModelID()),
			zap.Bool("images", images != nil),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		pruneIdle(gctx, logger, quizzes, memory, cfg.Quiz.IdleTTL)
		return nil
	})
	return g.Wait()
}

// newHTTPServer builds the listener-side server. Request contexts carry
// ctx's values but not its cancellation: a signal starts Shutdown, which
// lets in-flight requests finish.
func newHTTPServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	base := context.WithoutCancel(ctx)
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return base },
	}
}

// resolveLLMConfig applies --provider on top of the environment. The mock
// provider gets the demo replies so the service runs without credentials.
func resolveLLMConfig(cmd *cobra.Command) (llm.Config, error) {
	var (
		cfg llm.Config
		err error
	)
	if name, _ := cmd.Flags().GetString("provider"); name == "" {
		cfg, err = llm.ResolveConfig()
	} else {
		cfg = llm.ConfigFromEnv()
		cfg.Provider = name
		err = cfg.Validate()
	}
	if err != nil {
		return llm.Config{}, err
	}
	if cfg.Provider == "mock" {
		cfg.MockReplies = demoReplies()
	}
	return cfg, nil
}

// pruneIdle drops quizzes and conversations nobody touched for ttl.
// TODO: conversations started through the stateless endpoints have no quiz
// entry, so they are only dropped on restart.
func pruneIdle(ctx context.Context, logger *zap.Logger, quizzes *quiz.Store, memory *llm.Memory, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(max(ttl/4, time.Minute))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dropped := quizzes.Prune(ttl)
			for _, id := range dropped {
				memory.Forget(id)
			}
			if len(dropped) > 0 {
				logger.Info("pruned idle sessions", zap.Int("count", len(dropped)), zap.Int("remaining", quizzes.Len()))
			}
		}
	}
}
