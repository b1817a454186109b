package core

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"stafflow.com/stafflow/model"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// ParseLogLevel maps a config string to a LogLevel, defaulting to silent.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	case "info":
		return LogLevelInfo
	default:
		return LogLevelSilent
	}
}

// Database wraps the gorm handle that every service receives through its
// constructor. There are no package-level connections; the server builds one
// Database at startup and passes it down.
type Database struct {
	db *gorm.DB
}

// Open connects to MySQL and configures the pool (e.g. 30 conns).
func Open(dsn string, maxConnection int, level LogLevel) (*Database, error) {
	gormLogLevel := logger.Silent
	switch level {
	case LogLevelError:
		gormLogLevel = logger.Error
	case LogLevelWarn:
		gormLogLevel = logger.Warn
	case LogLevelInfo:
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return &Database{db: db}, nil
}

// NewDatabase wraps an existing gorm handle. Tests use this with SQLite.
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) DB(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// WithTransaction runs fn inside a single transaction: every write in fn
// commits or none do. All paired state+ledger mutations go through here.
func (d *Database) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.db.WithContext(ctx).Transaction(fn)
}

// Migrate creates/updates the five persisted collections plus the
// peripheral tables.
func (d *Database) Migrate() error {
	return d.db.AutoMigrate(
		&model.User{},
		&model.AttendanceRecord{},
		&model.LeaveBalance{},
		&model.LeaveApplication{},
		&model.Holiday{},
		&model.BiometricLog{},
		&model.Announcement{},
	)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// lockForUpdate adds SELECT ... FOR UPDATE on engines that support it.
// SQLite serializes writers on its own, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
