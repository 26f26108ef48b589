package database

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"

	"mingle/config"
)

var DB *sql.DB

func Connect() error {
	db, err := Open(config.Cfg.DBDriver, config.Cfg.DBDSN)
	if err != nil {
		return err
	}

	DB = db
	log.Println("Database connected successfully")
	return nil
}

func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

// IsDuplicate reports whether err is a unique-constraint violation. The
// unique keys on users, follow_requests, follow_edges and the like tables
// are the authoritative guard against concurrent duplicate writes, so
// callers map this to a conflict response instead of a server error.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateTables bootstraps the schema. The DDL sticks to the subset shared
// by MySQL and SQLite: composite UNIQUE constraints instead of named keys,
// unix-epoch BIGINT timestamps instead of DATETIME.
func CreateTables(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id           VARCHAR(36) PRIMARY KEY,
			username     VARCHAR(25) NOT NULL,
			email        VARCHAR(255) NOT NULL,
			password     VARCHAR(255) NOT NULL,
			first_name   VARCHAR(25) NOT NULL,
			last_name    VARCHAR(25) NOT NULL,
			display_name VARCHAR(50) NOT NULL,
			avatar       VARCHAR(255) NOT NULL,
			bio          VARCHAR(150) NOT NULL DEFAULT '',
			created_at   BIGINT NOT NULL,
			updated_at   BIGINT NOT NULL,
			UNIQUE (username),
			UNIQUE (email)
		)`,
		`CREATE TABLE IF NOT EXISTS follow_requests (
			id           VARCHAR(36) PRIMARY KEY,
			requester_id VARCHAR(36) NOT NULL,
			target_id    VARCHAR(36) NOT NULL,
			created_at   BIGINT NOT NULL,
			UNIQUE (requester_id, target_id)
		)`,
		`CREATE TABLE IF NOT EXISTS follow_edges (
			id          VARCHAR(36) PRIMARY KEY,
			follower_id VARCHAR(36) NOT NULL,
			followee_id VARCHAR(36) NOT NULL,
			created_at  BIGINT NOT NULL,
			UNIQUE (follower_id, followee_id)
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id         VARCHAR(36) PRIMARY KEY,
			author_id  VARCHAR(36) NOT NULL,
			text       TEXT,
			media      VARCHAR(255) NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS post_likes (
			id         VARCHAR(36) PRIMARY KEY,
			post_id    VARCHAR(36) NOT NULL,
			user_id    VARCHAR(36) NOT NULL,
			created_at BIGINT NOT NULL,
			UNIQUE (post_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         VARCHAR(36) PRIMARY KEY,
			post_id    VARCHAR(36) NOT NULL,
			author_id  VARCHAR(36) NOT NULL,
			content    TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comment_likes (
			id         VARCHAR(36) PRIMARY KEY,
			comment_id VARCHAR(36) NOT NULL,
			user_id    VARCHAR(36) NOT NULL,
			created_at BIGINT NOT NULL,
			UNIQUE (comment_id, user_id)
		)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return err
		}
	}

	return nil
}
