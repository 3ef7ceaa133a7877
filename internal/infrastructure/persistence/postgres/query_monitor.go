// Package postgres provides query performance monitoring
package postgres

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QueryMonitor tracks query performance through GORM callbacks and keeps
// a bounded log of recent slow queries for the debug endpoint.
type QueryMonitor struct {
	logger      *zap.Logger
	threshold   time.Duration
	mu          sync.RWMutex
	slowQueries []SlowQuery
	maxSlowLogs int
}

// SlowQuery represents one slow query with context
type SlowQuery struct {
	SQL       string        `json:"sql"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
	Error     string        `json:"error,omitempty"`
}

type queryContext struct {
	startTime time.Time
}

// NewQueryMonitor creates a new query monitor
func NewQueryMonitor(threshold time.Duration, logger *zap.Logger) *QueryMonitor {
	if threshold <= 0 {
		threshold = 100 * time.Millisecond
	}
	return &QueryMonitor{
		logger:      logger,
		threshold:   threshold,
		slowQueries: make([]SlowQuery, 0),
		maxSlowLogs: 200,
	}
}

// BeforeQuery is called before query execution
func (qm *QueryMonitor) BeforeQuery(db *gorm.DB) {
	if db.Statement == nil {
		return
	}
	db.InstanceSet("query_monitor_context", &queryContext{startTime: time.Now()})
}

// AfterQuery is called after query execution
func (qm *QueryMonitor) AfterQuery(db *gorm.DB) {
	if db.Statement == nil {
		return
	}

	ctxInterface, exists := db.InstanceGet("query_monitor_context")
	if !exists {
		return
	}
	qctx, ok := ctxInterface.(*queryContext)
	if !ok {
		return
	}

	duration := time.Since(qctx.startTime)
	slow := duration > qm.threshold
	RecordQuery(duration, db.Error, slow)

	if slow {
		query := SlowQuery{
			SQL:       sanitizeSQL(db.Statement.SQL.String()),
			Duration:  duration,
			Timestamp: time.Now(),
		}
		if db.Error != nil {
			query.Error = db.Error.Error()
		}
		qm.recordSlowQuery(query)

		qm.logger.Warn("Slow query detected",
			zap.Duration("duration", duration),
			zap.String("sql", query.SQL),
			zap.Error(db.Error),
		)
	}
}

// recordSlowQuery appends to the circular buffer
func (qm *QueryMonitor) recordSlowQuery(query SlowQuery) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if len(qm.slowQueries) >= qm.maxSlowLogs {
		qm.slowQueries = qm.slowQueries[1:]
	}
	qm.slowQueries = append(qm.slowQueries, query)
}

// GetSlowQueries returns the most recent slow queries
func (qm *QueryMonitor) GetSlowQueries(limit int) []SlowQuery {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	if limit <= 0 || limit > len(qm.slowQueries) {
		limit = len(qm.slowQueries)
	}

	start := len(qm.slowQueries) - limit
	result := make([]SlowQuery, limit)
	copy(result, qm.slowQueries[start:])
	return result
}

// sanitizeSQL removes potential literal values and trims long statements
func sanitizeSQL(sql string) string {
	sanitized := strings.ReplaceAll(sql, "'", "?")
	if len(sanitized) > 500 {
		sanitized = sanitized[:500] + "..."
	}
	return sanitized
}

// GORMLogWriter implements GORM's Writer interface for query logging
type GORMLogWriter struct {
	logger *zap.Logger
}

// Printf implements the Writer interface
func (w *GORMLogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	if strings.Contains(msg, "SLOW SQL") {
		w.logger.Warn("GORM slow query", zap.String("message", msg))
	} else if strings.Contains(msg, "ERROR") {
		w.logger.Error("GORM error", zap.String("message", msg))
	} else {
		w.logger.Debug("GORM log", zap.String("message", msg))
	}
}
