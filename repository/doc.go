// Package repository provides a generic Bun repository for CRUD, pagination
// and upsert, and the member search repository built on top of it.
package repository
