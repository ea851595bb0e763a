package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema lists the DDL statements applied by Migrate, in order.  Every
// statement is idempotent.  bookings.movie_id deliberately carries no foreign
// key: movie existence is checked when a booking is created, not afterwards.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(320) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    DATETIME(3)  NOT NULL,
		updated_at    DATETIME(3)  NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movies (
		id           CHAR(36)      NOT NULL PRIMARY KEY,
		title        VARCHAR(255)  NOT NULL,
		genre        VARCHAR(255)  NOT NULL,
		description  TEXT          NOT NULL,
		image_url    VARCHAR(2048) NOT NULL,
		duration     VARCHAR(64)   NOT NULL,
		rating       VARCHAR(64)   NOT NULL,
		director     VARCHAR(255)  NOT NULL,
		cast_members JSON          NOT NULL,
		showtimes    JSON          NOT NULL,
		ticket_price DOUBLE        NOT NULL,
		created_at   DATETIME(3)   NOT NULL,
		updated_at   DATETIME(3)   NOT NULL,
		UNIQUE KEY uq_movies_title (title)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                CHAR(36)    NOT NULL PRIMARY KEY,
		movie_id          CHAR(36)    NOT NULL,
		user_id           CHAR(36)    NOT NULL,
		showtime          VARCHAR(64) NOT NULL,
		number_of_tickets INT         NOT NULL,
		total_price       DOUBLE      NOT NULL,
		booking_date      DATETIME(3) NOT NULL,
		created_at        DATETIME(3) NOT NULL,
		updated_at        DATETIME(3) NOT NULL,
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_movie (movie_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies Schema to db.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
