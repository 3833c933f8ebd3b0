// Package main - точка входа HTTP-сервера Community Service Hub.
//
// Сервис ведёт учёт общественно-полезных часов студентов: сотрудники
// фиксируют и подтверждают часы, студенты запрашивают подтверждение и
// соревнуются в лидерборде.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация реестров (PostgreSQL, Redis, in-memory)
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cshours/community-service-hub/config"
	"github.com/cshours/community-service-hub/internal/application/command"
	"github.com/cshours/community-service-hub/internal/application/query"
	"github.com/cshours/community-service-hub/internal/domain/identity"
	"github.com/cshours/community-service-hub/internal/domain/user"
	"github.com/cshours/community-service-hub/internal/infrastructure/persistence/memory"
	"github.com/cshours/community-service-hub/internal/infrastructure/persistence/postgres"
	redisinfra "github.com/cshours/community-service-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/cshours/community-service-hub/internal/interface/http"
	"github.com/cshours/community-service-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting Community Service Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. РЕЕСТР ПОЛЬЗОВАТЕЛЕЙ (PostgreSQL или in-memory)
	// ─────────────────────────────────────────────────────────────────────────
	var directory user.Directory

	if cfg.Database.Disabled || cfg.Database.URL == "" {
		log.Warn("database disabled, using in-memory directory")
		directory = memory.NewDirectory()
	} else {
		log.Info("connecting to database...")
		dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		log.Info("running database migrations...")
		if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		directory = postgres.NewDirectory(dbConn)
	}

	students := directory.Students()
	staff := directory.Staff()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ХРАНИЛИЩЕ СЕССИЙ (Redis или in-memory)
	// ─────────────────────────────────────────────────────────────────────────
	var tokenStore identity.TokenStore

	if cfg.Redis.Disabled {
		log.Warn("redis disabled, using in-memory sessions")
		tokenStore = memory.NewTokenStore()
	} else {
		log.Info("connecting to redis...")
		redisClient, err := redisinfra.NewClient(ctx, redisinfra.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			log.Info("closing redis connection...")
			_ = redisClient.Close()
		}()

		tokenStore = redisinfra.NewSessionStore(redisClient)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. СБОРКА ОБРАБОТЧИКОВ (CQRS)
	// ─────────────────────────────────────────────────────────────────────────
	registerHandler := command.NewRegisterUserHandler(students, staff, cfg.Auth.BcryptCost)

	deps := httpserver.Dependencies{
		AuthenticateHandler:        command.NewAuthenticateHandler(students, staff, tokenStore, cfg.Auth.SessionTTL),
		RegisterUserHandler:        registerHandler,
		LogHoursHandler:            command.NewLogHoursHandler(students),
		ConfirmHoursHandler:        command.NewConfirmHoursHandler(students),
		RequestConfirmationHandler: command.NewRequestConfirmationHandler(students),

		GetStudentRosterHandler:        query.NewGetStudentRosterHandler(students),
		GetStaffRosterHandler:          query.NewGetStaffRosterHandler(staff),
		GetStudentHandler:              query.NewGetStudentHandler(students),
		GetSelfProfileHandler:          query.NewGetSelfProfileHandler(students, staff),
		GetPendingConfirmationsHandler: query.NewGetPendingConfirmationsHandler(students),
		GetAccoladesHandler:            query.NewGetAccoladesHandler(students),
		GetLeaderboardHandler:          query.NewGetLeaderboardHandler(students),

		TokenStore: tokenStore,
		Logger:     log,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. НАЧАЛЬНАЯ УЧЁТНАЯ ЗАПИСЬ СОТРУДНИКА
	// ─────────────────────────────────────────────────────────────────────────
	if err := seedStaffAccount(ctx, cfg, staff, registerHandler, log); err != nil {
		return fmt.Errorf("failed to seed staff account: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ЗАПУСК HTTP-СЕРВЕРА
	// ─────────────────────────────────────────────────────────────────────────
	serverConfig := httpserver.DefaultConfig()
	serverConfig.Host = cfg.HTTP.Host
	serverConfig.Port = cfg.HTTP.Port
	serverConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	serverConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	serverConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	serverConfig.EnableCORS = cfg.HTTP.EnableCORS
	serverConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(serverConfig, deps)
	serverErrCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

// seedStaffAccount создаёт начального сотрудника, когда реестр сотрудников
// пуст. Без хотя бы одного сотрудника некому фиксировать часы - регистрация
// студентов открыта, а сотрудников создаёт администратор.
func seedStaffAccount(
	ctx context.Context,
	cfg *config.Config,
	staff user.StaffRepository,
	register *command.RegisterUserHandler,
	log *logger.Logger,
) error {
	if cfg.Auth.SeedStaffPassword == "" {
		log.Warn("seed staff password not set, skipping staff seeding")
		return nil
	}

	count, err := staff.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	result, err := register.Handle(ctx, command.RegisterUserCommand{
		Username:    cfg.Auth.SeedStaffUsername,
		DisplayName: cfg.Auth.SeedStaffDisplayName,
		Password:    cfg.Auth.SeedStaffPassword,
		Role:        identity.RoleStaff,
	})
	if err != nil {
		// Гонка двух инстансов на старте: аккаунт уже создан - не ошибка.
		if errors.Is(err, user.ErrDuplicateUsername) {
			return nil
		}
		return err
	}

	log.Info("seeded initial staff account",
		logger.String("staff_id", result.ID),
		logger.Username(result.Username),
	)
	return nil
}
