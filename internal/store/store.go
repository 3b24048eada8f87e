// Package store is the persistence gateway: typed CRUD over the
// relational schema, the transactional claim transition and the
// analytics aggregation. No HTTP concerns live here.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrListingUnavailable is returned when a claim targets a listing
// that is no longer in the available state.
var ErrListingUnavailable = errors.New("listing is not available")

type Store struct {
	db      *gorm.DB
	reviews bool
}

func New(gdb *gorm.DB, reviewsEnabled bool) *Store {
	return &Store{db: gdb, reviews: reviewsEnabled}
}

// Reviews returns the optional review capability, or nil when the
// deployment does not support review storage. Callers must check for
// nil and report the operation as unsupported.
func (s *Store) Reviews() ReviewStore {
	if !s.reviews {
		return nil
	}
	return &reviewStore{db: s.db}
}
