// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mealforge/v2/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// ConnectionManager manages PostgreSQL database connections with pooling,
// optional read replicas and query monitoring.
type ConnectionManager struct {
	config  *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	writeDB *sql.DB
	monitor *QueryMonitor
	done    chan struct{}
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(cfg *config.Config, log *zap.Logger) (*ConnectionManager, error) {
	cm := &ConnectionManager{
		config:  cfg,
		logger:  log,
		monitor: NewQueryMonitor(cfg.Database.SlowQueryThreshold, log),
		done:    make(chan struct{}),
	}

	if err := cm.initializePrimaryConnection(); err != nil {
		return nil, fmt.Errorf("failed to initialize primary connection: %w", err)
	}

	if err := cm.initializeReadReplicas(); err != nil {
		log.Warn("Failed to initialize read replicas", zap.Error(err))
	}

	go cm.collectPoolStats(10 * time.Second)

	log.Info("Database connection manager initialized",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.Database.ConnMaxLifetime),
		zap.Duration("slow_query_threshold", cfg.Database.SlowQueryThreshold),
	)

	return cm, nil
}

// initializePrimaryConnection sets up the primary database connection
func (cm *ConnectionManager) initializePrimaryConnection() error {
	dsn := cm.config.GetDSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 cm.createGORMLogger(),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cm.config.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cm.config.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cm.config.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cm.config.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db
	cm.writeDB = sqlDB

	if err := cm.installQueryMonitoring(); err != nil {
		cm.logger.Warn("Failed to install query monitoring", zap.Error(err))
	}

	return nil
}

// initializeReadReplicas registers read replicas through the GORM resolver
func (cm *ConnectionManager) initializeReadReplicas() error {
	hosts := cm.config.Database.ReplicaHosts
	if len(hosts) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(hosts))
	for i, host := range hosts {
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			host,
			cm.config.Database.Port,
			cm.config.Database.Username,
			cm.config.Database.Password,
			cm.config.Database.Database,
			cm.config.Database.SSLMode,
		)
		replicas[i] = postgres.Open(dsn)
	}

	err := cm.db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RoundRobinPolicy(),
	}))
	if err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}

	cm.logger.Info("Read replicas configured", zap.Int("replica_count", len(hosts)))
	return nil
}

// createGORMLogger creates the GORM logger backed by zap
func (cm *ConnectionManager) createGORMLogger() logger.Interface {
	logLevel := logger.Warn
	switch cm.config.Database.LogLevel {
	case "debug":
		logLevel = logger.Info
	case "error":
		logLevel = logger.Error
	case "silent":
		logLevel = logger.Silent
	}

	threshold := cm.config.Database.SlowQueryThreshold
	if threshold <= 0 {
		threshold = 100 * time.Millisecond
	}

	return logger.New(
		&GORMLogWriter{logger: cm.logger},
		logger.Config{
			SlowThreshold:             threshold,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// installQueryMonitoring installs query monitoring callbacks
func (cm *ConnectionManager) installQueryMonitoring() error {
	if err := cm.db.Callback().Query().Before("gorm:query").Register("monitor:before", cm.monitor.BeforeQuery); err != nil {
		return err
	}
	return cm.db.Callback().Query().After("gorm:query").Register("monitor:after", cm.monitor.AfterQuery)
}

// GetDB returns the main database connection
func (cm *ConnectionManager) GetDB() *gorm.DB {
	return cm.db
}

// GetQueryMonitor returns the query monitor
func (cm *ConnectionManager) GetQueryMonitor() *QueryMonitor {
	return cm.monitor
}

// HealthCheck performs a health check on the database connection
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.writeDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}
	return nil
}

// Close closes all database connections
func (cm *ConnectionManager) Close() error {
	close(cm.done)

	if cm.writeDB != nil {
		if err := cm.writeDB.Close(); err != nil {
			cm.logger.Error("Failed to close primary database", zap.Error(err))
			return err
		}
	}
	return nil
}

// collectPoolStats periodically publishes pool statistics
func (cm *ConnectionManager) collectPoolStats(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-cm.done:
			return
		case <-ticker.C:
			if cm.writeDB != nil {
				RecordPoolStats(cm.writeDB.Stats())
			}
		}
	}
}
