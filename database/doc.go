// Package database provides connection management for MySQL, PostgreSQL and
// SQLite, schema migrations for the registered models, SQL file seeding,
// query logging hooks and health checks, all built on top of Bun.
package database
