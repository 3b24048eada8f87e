package store

import "github.com/ecoconnect-dev/ecoconnect/internal/models"

func (s *Store) CreateContactSubmission(submission *models.ContactSubmission) error {
	return s.db.Create(submission).Error
}
