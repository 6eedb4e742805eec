package session

import (
	"context"
	"errors"

	"github.com/2023371019/CheckMeKit/internal/models"

	"gorm.io/gorm"
)

// UserRepository adapts the patients table to the guard's Repository contract.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Identity{
		ID:            user.ID,
		Email:         user.Email,
		PasswordHash:  user.Password,
		ActiveSession: user.ActiveSession,
		SessionToken:  user.SessionToken,
	}, nil
}

func (r *UserRepository) StartSession(ctx context.Context, id uint, token string, force bool) (bool, error) {
	return startSession(r.db.WithContext(ctx).Model(&models.User{}), id, token, force)
}

func (r *UserRepository) ClearSession(ctx context.Context, id uint) error {
	return clearSession(r.db.WithContext(ctx).Model(&models.User{}), id)
}

func (r *UserRepository) CurrentToken(ctx context.Context, id uint) (*string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("session_token").Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user.SessionToken, nil
}

// DoctorRepository adapts the doctors table to the guard's Repository contract.
type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Identity{
		ID:            doctor.ID,
		Email:         doctor.Email,
		ActiveSession: doctor.ActiveSession,
		SessionToken:  doctor.SessionToken,
	}, nil
}

func (r *DoctorRepository) StartSession(ctx context.Context, id uint, token string, force bool) (bool, error) {
	return startSession(r.db.WithContext(ctx).Model(&models.Doctor{}), id, token, force)
}

func (r *DoctorRepository) ClearSession(ctx context.Context, id uint) error {
	return clearSession(r.db.WithContext(ctx).Model(&models.Doctor{}), id)
}

func (r *DoctorRepository) CurrentToken(ctx context.Context, id uint) (*string, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Select("session_token").Where("id = ?", id).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doctor.SessionToken, nil
}

// startSession is the check-and-set shared by both tables. The non-forced
// variant only matches a row whose session slot is free, making the check and
// the claim indivisible at the store.
func startSession(model *gorm.DB, id uint, token string, force bool) (bool, error) {
	query := model.Where("id = ?", id)
	if !force {
		query = query.Where("active_session = ?", false)
	}
	result := query.Updates(map[string]interface{}{
		"active_session": true,
		"session_token":  token,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func clearSession(model *gorm.DB, id uint) error {
	return model.Where("id = ?", id).Updates(map[string]interface{}{
		"active_session": false,
		"session_token":  nil,
	}).Error
}
