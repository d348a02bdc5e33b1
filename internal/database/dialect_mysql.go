package database

import (
	"database/sql"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN expects a go-sql-driver DSN; multiStatements is needed for migration files
func (d *MySQLDialect) DSN(config DialectConfig) string {
	dsn := config.URL
	if dsn == "" || strings.Contains(dsn, "multiStatements=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&multiStatements=true&parseTime=true"
	}
	return dsn + "?multiStatements=true&parseTime=true"
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

func (d *MySQLDialect) SupportsLastInsertId() bool {
	return true
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}
	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

// Upsert relies on the table's unique index over keys
func (d *MySQLDialect) Upsert(table string, keys, values []string) string {
	sets := make([]string, 0, len(values)+1)
	for _, v := range values {
		sets = append(sets, v+" = VALUES("+v+")")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	return upsertInsert(table, keys, values) + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}
