package database

import (
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/rs/zerolog/log"
	"github.com/xo/dburl"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ballsDexBot/models"
)

// Dialector maps a DATABASE_URL onto the matching gorm driver.
func Dialector(rawURL string) (gorm.Dialector, error) {
	u, err := dburl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing database url: %w", err)
	}

	switch u.Driver {
	case "mysql":
		return mysql.Open(withMysqlParams(u.DSN)), nil
	case "postgres":
		return postgres.Open(u.DSN), nil
	case "sqlserver":
		connector, err := mssql.NewConnector(u.DSN)
		if err != nil {
			return nil, fmt.Errorf("error creating sqlserver connector: %w", err)
		}
		return sqlserver.New(sqlserver.Config{Conn: sql.OpenDB(connector)}), nil
	case "sqlite3":
		return sqlite.Open(u.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", u.Driver)
	}
}

func Open(rawURL string) (*gorm.DB, error) {
	dialector, err := Dialector(rawURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("driver", dialector.Name()).Msg("database connected")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Player{},
		&models.Ball{},
		&models.Special{},
		&models.BallInstance{},
		&models.Guild{},
		&models.ErrorLog{},
	)
}

func withMysqlParams(dsn string) string {
	if strings.Contains(dsn, "parseTime") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "charset=utf8mb4&parseTime=True&loc=Local"
}
