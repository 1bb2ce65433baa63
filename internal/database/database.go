package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	return Open(dsn, &gorm.Config{})
}

// Open picks the driver from the DSN: postgres:// or postgresql:// for
// PostgreSQL, mysql:// for MySQL, anything else is a SQLite file or URI.
func Open(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}

	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)

	case strings.HasPrefix(dsn, "mysql://"):
		mcfg, err := mysql.ParseDSN(strings.TrimPrefix(dsn, "mysql://"))
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		mcfg.ParseTime = true
		log.Printf("Connecting to MySQL at %s/%s...", mcfg.Addr, mcfg.DBName)
		return gorm.Open(gormmysql.New(gormmysql.Config{DSNConfig: mcfg, DSN: mcfg.FormatDSN()}), cfg)
	}

	log.Println("Using SQLite for local development:", dsn)

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// SQLite has no row locks; one connection serialises every transaction.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func Dialect(db *gorm.DB) string {
	return db.Dialector.Name()
}

// SupportsRowLocks reports whether SELECT ... FOR UPDATE is meaningful.
func SupportsRowLocks(db *gorm.DB) bool {
	switch Dialect(db) {
	case DialectPostgres, DialectMySQL:
		return true
	}
	return false
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
