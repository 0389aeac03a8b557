package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bryanwahyu/code-debugger/internal/application"
	appdebugging "github.com/bryanwahyu/code-debugger/internal/application/debugging"
	"github.com/bryanwahyu/code-debugger/internal/config"
	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
	mysqlp "github.com/bryanwahyu/code-debugger/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/code-debugger/internal/infra/db/postgres"
	"github.com/bryanwahyu/code-debugger/internal/infra/httpserver"
	"github.com/bryanwahyu/code-debugger/internal/infra/linter/eslint"
	minioStore "github.com/bryanwahyu/code-debugger/internal/infra/storage"
	"github.com/bryanwahyu/code-debugger/internal/middleware"
)

func main() {
	// config path: --config wins over CONFIG_PATH
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	pflag.StringVarP(&path, "config", "c", path, "path to the yaml config file")
	pflag.Parse()

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	checkers := map[string]middleware.HealthChecker{}

	repo, closeRepo, err := openRepository(ctx, cfg, checkers)
	if err != nil {
		log.Fatalf("%s connect error: %v", cfg.Database.Driver, err)
	}
	defer closeRepo()

	// init linter
	runner, err := eslint.NewRunner(eslint.Options{
		Mode:    eslint.Mode(cfg.Linter.Mode),
		Command: cfg.Linter.Command,
		Image:   cfg.Linter.Image,
		WorkDir: cfg.Linter.WorkDir,
		Timeout: cfg.LinterTimeout(),
	})
	if err != nil {
		log.Fatalf("linter init error: %v", err)
	}
	checkers["eslint"] = runner

	// init service
	svc := &appdebugging.Service{
		Linter:       runner,
		Repo:         repo,
		Clock:        application.SystemClock{},
		Stats:        middleware.ServiceStats{},
		WriteTimeout: cfg.WriteTimeout(),
	}

	// init router
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillPerSecond)
	defer limiter.Stop()

	handler := httpserver.NewRouter(svc, httpserver.Options{
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Limiter:        limiter,
		HealthCheckers: checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LinterTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s (store=%s linter=%s)", addr, cfg.Database.Driver, cfg.Linter.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// openRepository picks the store named by database.driver and registers its health check.
func openRepository(ctx context.Context, cfg *config.Config, checkers map[string]middleware.HealthChecker) (domain.Repository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMinio:
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return nil, nil, err
		}
		checkers["storage"] = store
		return store, func() {}, nil

	case config.DriverPostgres:
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		return postgresp.NewDebugQueryRepository(db), closer(db, checkers), nil

	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		return mysqlp.NewDebugQueryRepository(db), closer(db, checkers), nil
	}
}

func closer(db *sql.DB, checkers map[string]middleware.HealthChecker) func() {
	checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	return func() { db.Close() }
}
