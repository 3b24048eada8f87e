package store

import (
	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"gorm.io/gorm"
)

// ReviewStore is the optional review capability. A storage
// implementation either provides it or omits it; callers answer
// "unsupported" when it is absent.
type ReviewStore interface {
	CreateReview(review *models.Review) error
	ListReviews() ([]models.Review, error)
}

type reviewStore struct {
	db *gorm.DB
}

func (r *reviewStore) CreateReview(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewStore) ListReviews() ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}
