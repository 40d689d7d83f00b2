package repository

import (
	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/internal/model"
)

type SystemRepository struct {
	db *gorm.DB
}

func NewSystemRepository(db *gorm.DB) *SystemRepository {
	return &SystemRepository{db: db}
}

// Get returns the single counters row.
func (r *SystemRepository) Get() (*model.System, error) {
	var sys model.System
	if err := r.db.Order("id ASC").First(&sys).Error; err != nil {
		return nil, err
	}
	return &sys, nil
}
