package db

import (
	"context"

	"go.uber.org/zap"
)

// ensureSchema creates missing tables and indexes at startup. Statements are
// idempotent so repeated boots against the same database are safe.
func ensureSchema(logger *zap.Logger) {
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			account_type TEXT NOT NULL DEFAULT 'client',
			avatar_url TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL CHECK (role IN ('buyer','vendor','admin','super_admin')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, role)
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			created_by UUID REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS services (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) CHECK (price IS NULL OR price >= 0),
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('draft','pending','approved','rejected','published')),
			images TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_services_status ON services(status)`,
		`CREATE INDEX IF NOT EXISTS idx_services_user ON services(user_id)`,

		`CREATE TABLE IF NOT EXISTS service_requests (
			id UUID PRIMARY KEY,
			service_id UUID NOT NULL REFERENCES services(id) ON DELETE CASCADE,
			client_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			vendor_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			message TEXT,
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending','accepted','rejected')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_client ON service_requests(client_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_vendor ON service_requests(vendor_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			service_request_id UUID NOT NULL REFERENCES service_requests(id) ON DELETE CASCADE,
			sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_request ON messages(service_request_id, created_at, id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(service_request_id, receiver_id) WHERE NOT is_read`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			reference UUID NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			read_at TIMESTAMPTZ NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := Conn.Exec(ctx, stmt); err != nil {
			logger.Error("schema statement failed", zap.Error(err))
		}
	}
}
