// Package id generates the primary keys of catalogs, documents, rows and
// ledger entries.
package id

import "github.com/google/uuid"

// ID is a UUID. New ids are version 7, so they sort by creation time and
// ledger entries written in one voucher keep their order.
type ID = uuid.UUID

// New returns a UUIDv7, falling back to a random UUID if the clock read fails.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse panics on a malformed id. Tests and fixtures only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

func Nil() ID {
	return uuid.Nil
}

func IsNil(v ID) bool {
	return v == uuid.Nil
}
