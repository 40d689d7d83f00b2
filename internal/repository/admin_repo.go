package repository

import (
	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/internal/model"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// adminColumns are written on create even when zero; otherwise gorm lets the
// column defaults replace a deliberate 0 fee or balance.
var adminColumns = []string{"Username", "HashedPassword", "IsSudo", "TelegramID", "HakobotBalance", "HakobotGbFee", "CreatedAt"}

func (r *AdminRepository) Create(admin *model.Admin) error {
	return r.db.Select(adminColumns).Create(admin).Error
}

func (r *AdminRepository) GetByID(id int64) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.Where("id = ?", id).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) GetByTelegramID(telegramID int64) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.Where("telegram_id = ?", telegramID).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) GetByUsername(username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.Where("username = ?", username).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Admin{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *AdminRepository) ExistsByTelegramID(telegramID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Admin{}).Where("telegram_id = ?", telegramID).Count(&count).Error
	return count > 0, err
}

func (r *AdminRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Admin{}).Count(&count).Error
	return count, err
}

// List returns admins in creation order.
func (r *AdminRepository) List(offset, limit int) ([]*model.Admin, error) {
	var admins []*model.Admin
	query := r.db.Order("id ASC")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// AddBalance shifts hakobot_balance by delta, which may be negative.
func (r *AdminRepository) AddBalance(id int64, delta int64) error {
	result := r.db.Model(&model.Admin{}).Where("id = ?", id).
		Update("hakobot_balance", gorm.Expr("hakobot_balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
