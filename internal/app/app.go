package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"

	config "github.com/DRSN-tech/medstore-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/medstore-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/medstore-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/medstore-backend/internal/infrastructure/token"
	s3Repo "github.com/DRSN-tech/medstore-backend/internal/repository/minio"
	"github.com/DRSN-tech/medstore-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/medstore-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/medstore-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/medstore-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/clients"
	"github.com/DRSN-tech/medstore-backend/pkg/closer"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
	"github.com/DRSN-tech/medstore-backend/pkg/postgres"
)

// App связывает все слои приложения и управляет их жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	db      *postgres.PgDatabase
	httpSrv *v1Http.Server
	worker  *kafka.OutboxWorker
	closer  *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	transactor := pgdb.NewTransactor(db.Pool)
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	userRepo := pgdb.NewUserRepo(db.Pool, pgdbConv.UserConverter{})
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.OrderConverter{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ProductConverter{}, cfg.Redis, log)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	importFileRepo := s3Repo.NewImportFileRepo(minioClient, cfg.Minio)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	worker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)
	cl.Add(func(ctx context.Context) error {
		worker.Stop()
		return nil
	})

	tokens := token.NewJWTManager(cfg.Auth)

	productUC := usecase.NewProductUC(productRepo, cacheRepo, log)
	authUC := usecase.NewAuthUC(userRepo, tokens, cfg.Auth.BcryptCost, log)
	userUC := usecase.NewUserUC(userRepo, cfg.Auth.BcryptCost, log)
	orderUC := usecase.NewOrderUC(orderRepo, productRepo, userRepo, outboxRepo, cacheRepo, transactor, log)
	importUC := usecase.NewImportUC(productRepo, importFileRepo, log)

	authMw := v1Http.NewAuthMiddleware(tokens, userRepo, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(productUC, authUC, userUC, orderUC, importUC, authMw)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	return &App{
		cfg:     cfg,
		logger:  log,
		db:      db,
		httpSrv: httpSrv,
		worker:  worker,
		closer:  cl,
	}, nil
}

// Run запускает воркер outbox и HTTP-сервер, блокируется до сигнала
// завершения или фатальной ошибки, затем закрывает ресурсы в порядке LIFO.
func (a *App) Run() error {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	a.worker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("Shutdown finished with errors: %v", err)
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
