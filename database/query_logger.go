package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// QueryLog is one executed statement as shown by the debug endpoint
type QueryLog struct {
	ID        int           `json:"id"`
	SQL       string        `json:"sql"`
	Duration  time.Duration `json:"duration"`
	Rows      int64         `json:"rows"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// QueryLogger is a fixed-size ring of the latest statements. IDs keep
// increasing across Clear, so Count differences measure statements run.
type QueryLogger struct {
	mu    sync.RWMutex
	ring  []QueryLog
	next  int // slot the next entry is written to
	held  int // entries currently in the ring
	total int
}

// NewQueryLogger creates a ring holding up to size statements
func NewQueryLogger(size int) *QueryLogger {
	if size < 1 {
		size = 1
	}
	return &QueryLogger{ring: make([]QueryLog, size)}
}

// LogQuery records a statement, evicting the oldest when full
func (ql *QueryLogger) LogQuery(sql string, duration time.Duration, rows int64, err error) {
	ql.mu.Lock()
	defer ql.mu.Unlock()

	ql.total++
	entry := QueryLog{ID: ql.total, SQL: sql, Duration: duration, Rows: rows, Timestamp: time.Now()}
	if err != nil {
		entry.Error = err.Error()
	}

	ql.ring[ql.next] = entry
	ql.next = (ql.next + 1) % len(ql.ring)
	if ql.held < len(ql.ring) {
		ql.held++
	}
}

// Count returns the number of statements recorded since creation
func (ql *QueryLogger) Count() int {
	ql.mu.RLock()
	defer ql.mu.RUnlock()
	return ql.total
}

// Clear empties the ring
func (ql *QueryLogger) Clear() {
	ql.mu.Lock()
	defer ql.mu.Unlock()
	ql.held = 0
}

// GetRecentQueries returns up to n statements, newest first
func (ql *QueryLogger) GetRecentQueries(n int) []QueryLog {
	ql.mu.RLock()
	defer ql.mu.RUnlock()

	n = min(max(n, 0), ql.held)
	out := make([]QueryLog, n)
	for i := range out {
		out[i] = ql.ring[(ql.next-1-i+len(ql.ring))%len(ql.ring)]
	}
	return out
}

// GormLogger adapts zap to GORM's logger.Interface. Normal statements are
// logged at debug, slow statements and failures at warn.
type GormLogger struct {
	log           *zap.Logger
	slowThreshold time.Duration
	queries       *QueryLogger
	silent        bool
}

// NewGormLogger creates a GORM logger; queries may be nil
func NewGormLogger(log *zap.Logger, slowThreshold time.Duration, queries *QueryLogger) *GormLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &GormLogger{log: log, slowThreshold: slowThreshold, queries: queries}
}

// Quiet returns a copy that drops everything except the recent query log
func (l *GormLogger) Quiet() *GormLogger {
	cp := *l
	cp.silent = true
	return &cp
}

// LogMode is a no-op, the level comes from the zap configuration
func (l *GormLogger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

// Info implements logger.Interface
func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if !l.silent {
		l.log.Debug(fmt.Sprintf(msg, data...))
	}
}

// Warn implements logger.Interface
func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if !l.silent {
		l.log.Warn(fmt.Sprintf(msg, data...))
	}
}

// Error implements logger.Interface
func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if !l.silent {
		l.log.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace implements logger.Interface
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if l.queries != nil {
		l.queries.LogQuery(sql, elapsed, rows, err)
	}
	if l.silent {
		return
	}

	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows_affected", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.log.Warn("query error", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		l.log.Warn("slow query", append(fields, zap.Duration("threshold", l.slowThreshold))...)
	default:
		l.log.Debug("sql query", fields...)
	}
}
