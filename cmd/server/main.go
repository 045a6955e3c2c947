package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"clinicore/internal/audit"
	authhandler "clinicore/internal/auth/handler"
	"clinicore/internal/auth/lockout"
	authservice "clinicore/internal/auth/service"
	identityhandler "clinicore/internal/identity/handler"
	identityservice "clinicore/internal/identity/service"
	identitystore "clinicore/internal/identity/store"
	"clinicore/internal/platform/config"
	"clinicore/internal/platform/httpserver"
	"clinicore/internal/platform/logger"
	"clinicore/internal/platform/metrics"
	redisplatform "clinicore/internal/platform/redis"
	httptransport "clinicore/internal/transport/http"
	wardhandler "clinicore/internal/ward/handler"
	wardservice "clinicore/internal/ward/service"
	wardstore "clinicore/internal/ward/store"
)

const auditQueueCapacity = 1024

// main wires the dependency graph and runs the server lifecycle. Business
// logic lives in the internal services; everything here is plumbing.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Stores: postgres-backed when a DSN is configured, in-memory otherwise.
	var (
		patients identitystore.PatientStore
		doctors  identitystore.DoctorStore
		nurses   identitystore.NurseStore
		rooms    wardstore.RoomStore
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if _, err := db.ExecContext(ctx, identitystore.Schema); err != nil {
			log.Error("failed to apply identity schema", "error", err)
			os.Exit(1)
		}
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if _, err := pool.Exec(ctx, wardstore.Schema); err != nil {
			log.Error("failed to apply ward schema", "error", err)
			os.Exit(1)
		}
		patients = identitystore.NewPostgresPatients(db)
		doctors = identitystore.NewPostgresDoctors(db)
		nurses = identitystore.NewPostgresNurses(db)
		rooms = wardstore.NewPostgresRooms(pool)
	} else {
		patients = identitystore.NewInMemoryPatients()
		doctors = identitystore.NewInMemoryDoctors()
		nurses = identitystore.NewInMemoryNurses()
		rooms = wardstore.NewInMemoryRooms()
	}

	// Lockout state lives in Redis when configured so it survives restarts
	// and is shared between replicas.
	var lockoutStore lockout.Store = lockout.NewInMemoryStore()
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		lockoutStore = lockout.NewRedisStore(redisClient)
	}
	guard, err := lockout.New(lockoutStore, cfg.Lockout, log)
	if err != nil {
		log.Error("failed to build lockout guard", "error", err)
		os.Exit(1)
	}

	// Audit events go to Kafka when seeds are configured, otherwise to the
	// log. The worker decouples request handling from publishing.
	var publisher audit.Publisher = audit.NewLogPublisher(log)
	if len(cfg.Kafka.Seeds) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(ctx, cfg.Kafka.Seeds, cfg.Kafka.AuditTopic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}
	auditWorker := audit.NewWorker(publisher, log, auditQueueCapacity)

	registry, err := identityservice.New(patients, doctors, nurses,
		identityservice.WithLogger(log),
		identityservice.WithAudit(auditWorker),
		identityservice.WithMetrics(m),
	)
	if err != nil {
		log.Error("failed to build registry service", "error", err)
		os.Exit(1)
	}
	resolver, err := authservice.New(cfg.Admin, doctors, patients,
		authservice.WithLockout(guard),
		authservice.WithLogger(log),
		authservice.WithAudit(auditWorker),
		authservice.WithMetrics(m),
	)
	if err != nil {
		log.Error("failed to build auth resolver", "error", err)
		os.Exit(1)
	}
	ward, err := wardservice.New(rooms, patients,
		wardservice.WithLogger(log),
		wardservice.WithAudit(auditWorker),
		wardservice.WithMetrics(m),
	)
	if err != nil {
		log.Error("failed to build ward service", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(
		identityhandler.New(registry, log, m),
		authhandler.New(resolver, log, m),
		wardhandler.New(ward, log, m),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
