// Package models defines server-side data models persisted in the database.
package models

// Document is one stored root tree, serialized as JSON. Version increases by
// one on every successful write and guards against concurrent writers.
type Document struct {
	ID      string
	Body    []byte
	Version int64
}
