// ABOUTME: Database schema definition and initialization
// ABOUTME: Portable DDL for SQLite and Postgres: contacts, companies, deals, interactions, follow-ups, job and sync logs
package db

import (
	"context"
	"fmt"
)

// Timestamps are stored as RFC3339 UTC text and ids as text so the same DDL
// and queries run on both dialects.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	industry TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	size TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_companies_name ON companies(LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	company_id TEXT REFERENCES companies(id),
	linkedin_url TEXT NOT NULL DEFAULT '',
	segment TEXT NOT NULL DEFAULT '',
	engagement_stage TEXT NOT NULL DEFAULT 'new'
		CHECK(engagement_stage IN ('new', 'nurturing', 'active', 'client', 'churned')),
	inbound_channel TEXT NOT NULL DEFAULT '',
	do_not_contact INTEGER NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'archived')),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(LOWER(email))`,

	`CREATE TABLE IF NOT EXISTS deals (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts(id),
	company_id TEXT REFERENCES companies(id),
	title TEXT NOT NULL,
	stage TEXT NOT NULL DEFAULT 'lead'
		CHECK(stage IN ('lead', 'prospect', 'qualified', 'proposal', 'negotiation', 'won', 'lost')),
	value DOUBLE PRECISION NOT NULL DEFAULT 0,
	currency TEXT NOT NULL DEFAULT 'USD',
	priority TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high')),
	expected_close TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_deals_contact ON deals(contact_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage)`,

	`CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts(id),
	deal_id TEXT REFERENCES deals(id),
	type TEXT NOT NULL DEFAULT 'note'
		CHECK(type IN ('call', 'email', 'meeting', 'note', 'linkedin_message', 'other')),
	direction TEXT NOT NULL DEFAULT 'outbound' CHECK(direction IN ('inbound', 'outbound', 'internal')),
	subject TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	occurred_at TEXT NOT NULL,
	created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_contact ON interactions(contact_id, occurred_at)`,

	`CREATE TABLE IF NOT EXISTS follow_ups (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts(id),
	deal_id TEXT REFERENCES deals(id),
	title TEXT NOT NULL,
	due_date TEXT NOT NULL,
	due_time TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'completed')),
	completed_at TEXT,
	notes TEXT NOT NULL DEFAULT '',
	reminder_sent INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK((status = 'completed') = (completed_at IS NOT NULL))
)`,
	`CREATE INDEX IF NOT EXISTS idx_follow_ups_status_due ON follow_ups(status, due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_follow_ups_contact ON follow_ups(contact_id)`,

	`CREATE TABLE IF NOT EXISTS job_runs (
	id TEXT PRIMARY KEY,
	job_name TEXT NOT NULL,
	run_date TEXT NOT NULL,
	ran_at TEXT NOT NULL,
	UNIQUE(job_name, run_date)
)`,

	`CREATE TABLE IF NOT EXISTS sync_log (
	id TEXT PRIMARY KEY,
	source_service TEXT NOT NULL,
	source_id TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	imported_at TEXT NOT NULL,
	metadata TEXT NOT NULL DEFAULT '',
	UNIQUE(source_service, source_id)
)`,
}

// InitSchema creates all tables and indexes if they do not exist.
func (d *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
