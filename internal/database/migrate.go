package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema creates every table the service uses.  Statements are idempotent
// so Migrate can run on each deploy.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tables (
		id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		external_table_id VARCHAR(64)     NOT NULL,
		capacity          INT UNSIGNED    NOT NULL,
		UNIQUE KEY uq_tables_external (external_table_id),
		CONSTRAINT chk_tables_capacity CHECK (capacity > 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS business_hours (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		day_of_week TINYINT UNSIGNED NOT NULL,
		open_time   TIME            NOT NULL,
		close_time  TIME            NOT NULL,
		is_active   BOOLEAN         NOT NULL DEFAULT TRUE,
		KEY idx_business_hours_day (day_of_week),
		CONSTRAINT chk_business_hours_day CHECK (day_of_week <= 6),
		CONSTRAINT chk_business_hours_range CHECK (open_time < close_time)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS holidays (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		holiday_date DATE            NOT NULL,
		is_recurring BOOLEAN         NOT NULL DEFAULT FALSE,
		reason       VARCHAR(255)    NOT NULL DEFAULT '',
		UNIQUE KEY uq_holidays_date (holiday_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		phone            VARCHAR(32)     NOT NULL,
		email            VARCHAR(255)    NULL,
		party_size       INT UNSIGNED    NOT NULL,
		booked_name      VARCHAR(255)    NOT NULL,
		note             TEXT            NULL,
		status           ENUM('confirmed') NOT NULL DEFAULT 'confirmed',
		checked_in       BOOLEAN         NOT NULL DEFAULT FALSE,
		reservation_date DATE            NOT NULL,
		slot             CHAR(11)        NOT NULL,
		table_id         BIGINT UNSIGNED NOT NULL,
		created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_reservations_date (reservation_date),
		KEY idx_reservations_phone_date (phone, reservation_date),
		UNIQUE KEY uq_reservations_table_slot (table_id, reservation_date, slot),
		CONSTRAINT fk_reservations_table FOREIGN KEY (table_id) REFERENCES tables (id),
		CONSTRAINT chk_reservations_party CHECK (party_size > 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS staff_users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		role          ENUM('STAFF','ADMIN') NOT NULL DEFAULT 'STAFF',
		is_active     BOOLEAN         NOT NULL DEFAULT TRUE,
		created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_staff_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS staff_sessions (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_staff_sessions_token (token_hash),
		KEY idx_staff_sessions_user (user_id),
		CONSTRAINT fk_staff_sessions_user FOREIGN KEY (user_id) REFERENCES staff_users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema in order.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
