// Package postgres persists the audit log in an append-only table. Layout:
//
//	CREATE TABLE audit_entries (
//	    id               UUID PRIMARY KEY,
//	    timestamp        TIMESTAMPTZ NOT NULL,
//	    administrator_id TEXT NOT NULL,
//	    administrator_name  TEXT NOT NULL,
//	    administrator_email TEXT NOT NULL,
//	    action           TEXT NOT NULL,
//	    target_user_id   TEXT NOT NULL,
//	    target_user_name  TEXT NOT NULL,
//	    target_user_email TEXT NOT NULL,
//	    product_id       TEXT NOT NULL,
//	    product_name     TEXT NOT NULL,
//	    access_id        TEXT,
//	    request_id       TEXT,
//	    details          JSONB NOT NULL,
//	    ip_address       TEXT,
//	    user_agent       TEXT
//	);
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"datacatalog/internal/audit"
)

type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one entry. Idempotent via ON CONFLICT DO NOTHING, so a
// retried append of the same entry never duplicates it.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_entries (
			id, timestamp, administrator_id, administrator_name, administrator_email,
			action, target_user_id, target_user_name, target_user_email,
			product_id, product_name, access_id, request_id, details,
			ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Timestamp,
		entry.AdministratorID,
		entry.AdministratorName,
		entry.AdministratorEmail,
		string(entry.Action),
		entry.TargetUserID,
		entry.TargetUserName,
		entry.TargetUserEmail,
		entry.ProductID,
		entry.ProductName,
		entry.AccessID,
		entry.RequestID,
		details,
		entry.IPAddress,
		entry.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns the full log, oldest first to match the in-memory append order.
func (s *Store) List(ctx context.Context) ([]audit.Entry, error) {
	query := `
		SELECT id, timestamp, administrator_id, administrator_name, administrator_email,
			   action, target_user_id, target_user_name, target_user_email,
			   product_id, product_name, access_id, request_id, details,
			   ip_address, user_agent
		FROM audit_entries
		ORDER BY timestamp ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry   audit.Entry
			action  string
			details []byte
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.AdministratorID,
			&entry.AdministratorName,
			&entry.AdministratorEmail,
			&action,
			&entry.TargetUserID,
			&entry.TargetUserName,
			&entry.TargetUserEmail,
			&entry.ProductID,
			&entry.ProductName,
			&entry.AccessID,
			&entry.RequestID,
			&details,
			&entry.IPAddress,
			&entry.UserAgent,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.Action = audit.Action(action)
		if err := json.Unmarshal(details, &entry.Details); err != nil {
			return nil, fmt.Errorf("decode audit details: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

// Clear removes the full log. Only reachable through the explicit
// administrative clear operation.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM audit_entries`); err != nil {
		return fmt.Errorf("clear audit entries: %w", err)
	}
	return nil
}
