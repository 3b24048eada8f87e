package store

import (
	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"gorm.io/datatypes"
)

func (s *Store) GetUser(id uint) (models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	return user, err
}

func (s *Store) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	return user, err
}

func (s *Store) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	return user, err
}

func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *Store) UpdateUser(user *models.User, updates map[string]interface{}) error {
	return s.db.Model(user).Updates(updates).Error
}

// LinkProviderIdentity attaches the provider-issued reference to an
// existing user. No other field changes.
func (s *Store) LinkProviderIdentity(user *models.User, supabaseID string, metadata []byte) error {
	updates := map[string]interface{}{"supabase_id": supabaseID}

	if len(metadata) > 0 {
		updates["provider_metadata"] = datatypes.JSON(metadata)
	}

	return s.db.Model(user).Updates(updates).Error
}

func (s *Store) CountUsersByRole(role types.Role) (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (s *Store) GetUsersByRole(role types.Role) ([]models.User, error) {
	var users []models.User
	err := s.db.Where("role = ?", role).Order("created_at DESC").Find(&users).Error
	return users, err
}
