package storage

// Package storage provides the SQLite-backed media library and user
// registry stores with embedded schema migrations.
