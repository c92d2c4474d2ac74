package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openmart/shop_backend/internal/models"
)

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *GormRepo) CreateAdmin(ctx context.Context, a *models.Admin) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	tx := r.DB.WithContext(ctx).Where("username = ?", a.Username).FirstOrCreate(a)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// FindByRefreshToken resolves the principal whose stored refresh token exactly
// matches the presented one, checking users first and admins second.
func (r *GormRepo) FindByRefreshToken(ctx context.Context, token string) (*Principal, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("refresh_token = ?", token).First(&user).Error
	if err == nil {
		return &Principal{Kind: KindUser, ID: user.ID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var admin models.Admin
	err = r.DB.WithContext(ctx).Where("refresh_token = ?", token).First(&admin).Error
	if err == nil {
		return &Principal{Kind: KindAdmin, ID: admin.ID}, nil
	}
	return nil, err
}

func (r *GormRepo) SetRefreshToken(ctx context.Context, p Principal, token string) error {
	model := r.principalModel(p.Kind)
	tx := r.DB.WithContext(ctx).Model(model).
		Where("id = ?", p.ID).
		Update("refresh_token", token)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearRefreshToken ends the session of whichever principal owns the id.
func (r *GormRepo) ClearRefreshToken(ctx context.Context, principalID string) error {
	tx := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", principalID).
		Update("refresh_token", nil)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected > 0 {
		return nil
	}

	tx = r.DB.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", principalID).
		Update("refresh_token", nil)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) principalModel(kind PrincipalKind) any {
	if kind == KindAdmin {
		return &models.Admin{}
	}
	return &models.User{}
}
