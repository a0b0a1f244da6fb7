package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Geti23/quiz-app/internal/app"
	"github.com/Geti23/quiz-app/internal/config"
	"github.com/Geti23/quiz-app/internal/infra/memory"
	pgseed "github.com/Geti23/quiz-app/internal/infra/postgres"
	redisstore "github.com/Geti23/quiz-app/internal/infra/redis"
	transport "github.com/Geti23/quiz-app/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var store app.QuizStore = memory.NewQuizStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		store = redisstore.NewQuizStore(client)
		logger.Info("using redis quiz store", "addr", cfg.Redis.Addr)
	}

	service := app.NewQuizService(store)

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return err
		}
		if err := seedFromPostgres(ctx, cfg.Postgres.URL, service, logger); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting quiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// seedFromPostgres loads seed quizzes into the store so a fresh process
// starts with content. Seeds are regular quizzes afterwards: clients may
// answer, replace, or delete them.
func seedFromPostgres(ctx context.Context, url string, service *app.QuizService, logger *slog.Logger) error {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer pool.Close()

	quizzes, err := pgseed.NewSeedSource(pool).LoadQuizzes(ctx)
	if err != nil {
		return err
	}
	for _, quiz := range quizzes {
		if _, err := service.Create(ctx, quiz.Title, quiz.TimeLimitSeconds, quiz.Questions); err != nil {
			logger.Error("skipping invalid seed quiz", "title", quiz.Title, "error", err)
		}
	}
	logger.Info("seeded quizzes from postgres", "count", len(quizzes))
	return nil
}
