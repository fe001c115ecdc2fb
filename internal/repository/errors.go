package repository

import "errors"

// ErrUnsupportedStore is returned when a connection string names a store
// scheme no backend understands.
var ErrUnsupportedStore = errors.New("unsupported store scheme")

// ErrEmptyConnString is returned when a Connector is built without a connection string.
var ErrEmptyConnString = errors.New("empty store connection string")

// ErrEphemeralSQLite is returned for in-memory or unnamed SQLite databases.
// Every request opens its own connection, so such a database would be empty
// on each one.
var ErrEphemeralSQLite = errors.New("sqlite database must be a file")
