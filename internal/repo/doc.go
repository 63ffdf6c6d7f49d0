// Package repo хранит историю runs в PostgreSQL (pgx).
//
// История необязательна: без DB_URL команды run и schedule работают без неё.
package repo
