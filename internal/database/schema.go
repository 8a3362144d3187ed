package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order at startup.  Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('GUEST','HOST') NOT NULL DEFAULT 'GUEST',
		is_active     TINYINT(1) NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_profiles_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS properties (
		id                   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title                VARCHAR(200) NOT NULL,
		location             VARCHAR(200) NOT NULL,
		description          TEXT NOT NULL,
		price                DECIMAL(12,2) NOT NULL,
		rating               DECIMAL(3,2) NOT NULL DEFAULT 0,
		amenities            JSON NOT NULL,
		image_url            VARCHAR(1024) NOT NULL,
		images               JSON NOT NULL,
		is_guest_favorite    TINYINT(1) NOT NULL DEFAULT 0,
		host_user_id         BIGINT UNSIGNED NULL,
		host_subaccount_code VARCHAR(64) NULL,
		created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_properties_host (host_user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id                BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		property_id       BIGINT UNSIGNED NOT NULL,
		guest_user_id     BIGINT UNSIGNED NOT NULL,
		guest_name        VARCHAR(255) NOT NULL,
		check_in          DATE NOT NULL,
		check_out         DATE NOT NULL,
		guests            INT NOT NULL,
		total_price       DECIMAL(12,2) NOT NULL,
		status            ENUM('confirmed','pending','cancelled') NOT NULL DEFAULT 'pending',
		payment_reference VARCHAR(128) NULL,
		created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_bookings_payment_reference (payment_reference),
		KEY idx_bookings_property_status (property_id, status),
		KEY idx_bookings_guest (guest_user_id),
		CONSTRAINT fk_bookings_property FOREIGN KEY (property_id) REFERENCES properties(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
