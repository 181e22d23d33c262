// Package store define el acceso al store de documentos compartido por el
// proceso: los contratos Handle/Collection, el registry de adaptadores por
// esquema de URI y el ConnectionCache que entrega un único handle por proceso.
package store

import (
	"context"
	"errors"
	"fmt"
)

// IDField es el identificador de documento expuesto en el wire.
const IDField = "_id"

// Document es un documento tal como se guarda y se devuelve.
type Document map[string]any

// ID retorna el _id en su forma string ("" si no tiene).
func (d Document) ID() string { return IDString(d[IDField]) }

// IDString normaliza un identificador (string, ObjectID, número) a string.
func IDString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Collection es una colección de documentos sin schema.
type Collection interface {
	// Find lee la colección completa, sin filtros, en orden de inserción.
	Find(ctx context.Context) ([]Document, error)
	// FindByIDs lee los documentos cuyo _id está en ids. Los inexistentes se omiten.
	FindByIDs(ctx context.Context, ids []string) ([]Document, error)
	// FindOne retorna el primer documento con field == value o ErrNotFound.
	FindOne(ctx context.Context, field string, value any) (Document, error)
	// Insert guarda doc tal cual y retorna el documento con su _id generado.
	Insert(ctx context.Context, doc Document) (Document, error)
}

// Handle es una conexión abierta al store.
type Handle interface {
	Name() string
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Acquirer entrega el handle compartido. Lo implementa *ConnectionCache.
type Acquirer interface {
	Acquire(ctx context.Context) (Handle, error)
}

var (
	ErrNotConfigured = errors.New("store: connection uri not configured")
	ErrUnknownScheme = errors.New("store: unknown uri scheme")
	ErrNotFound      = errors.New("store: document not found")
)
