package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/config"
	"github.com/freecyberhawk/hakobot/internal/model"
	"github.com/freecyberhawk/hakobot/internal/repository"
	"github.com/freecyberhawk/hakobot/internal/wizard"
)

const generatedPasswordLength = 12

type AdminService struct {
	adminRepo  *repository.AdminRepository
	userRepo   *repository.UserRepository
	systemRepo *repository.SystemRepository
	cfg        *config.Config
}

func NewAdminService(
	adminRepo *repository.AdminRepository,
	userRepo *repository.UserRepository,
	systemRepo *repository.SystemRepository,
	cfg *config.Config,
) *AdminService {
	return &AdminService{
		adminRepo:  adminRepo,
		userRepo:   userRepo,
		systemRepo: systemRepo,
		cfg:        cfg,
	}
}

func (s *AdminService) GetByTelegramID(telegramID int64) (*model.Admin, error) {
	admin, err := s.adminRepo.GetByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

// FindByUsername looks an admin up for the superuser search screen.
func (s *AdminService) FindByUsername(username string) (*model.Admin, error) {
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

// Create stores the admin described by a finished draft. The generated
// password is returned in clear once and only its bcrypt hash is kept.
func (s *AdminService) Create(draft *wizard.AdminDraft) (*model.Admin, string, error) {
	if draft == nil || !draft.Ready() {
		return nil, "", ErrDraftIncomplete
	}

	exists, err := s.adminRepo.ExistsByUsername(draft.Username)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrAdminExists
	}

	exists, err = s.adminRepo.ExistsByTelegramID(draft.TelegramID)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrTelegramIDTaken
	}

	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return nil, "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	telegramID := draft.TelegramID
	admin := &model.Admin{
		Username:       draft.Username,
		HashedPassword: string(hashed),
		TelegramID:     &telegramID,
		HakobotBalance: draft.Balance,
		HakobotGbFee:   draft.GbFee,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, "", err
	}

	return admin, password, nil
}

// List returns one page of admins and the total count.
func (s *AdminService) List(page, pageSize int) ([]*model.Admin, int64, error) {
	total, err := s.adminRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	page = clampPage(page, pageSize, total)
	admins, err := s.adminRepo.List((page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

type PanelStats struct {
	Admins       int64
	Users        int64
	ActiveUsers  int64
	TrafficBytes int64
}

// Stats summarizes the whole panel for the admin management screen.
func (s *AdminService) Stats() (*PanelStats, error) {
	stats := &PanelStats{}

	var err error
	if stats.Admins, err = s.adminRepo.Count(); err != nil {
		return nil, err
	}
	if stats.Users, err = s.userRepo.Count(repository.UserCountFilter{}); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.userRepo.Count(repository.UserCountFilter{Status: model.UserStatusActive}); err != nil {
		return nil, err
	}

	sys, err := s.systemRepo.Get()
	switch {
	case err == nil:
		stats.TrafficBytes = sys.Total()
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	return stats, nil
}

func generatePassword(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// clampPage keeps page within 1..total pages so stale buttons still land somewhere.
func clampPage(page, pageSize int, total int64) int {
	if page < 1 {
		return 1
	}
	if pageSize < 1 {
		return page
	}
	last := int((total + int64(pageSize) - 1) / int64(pageSize))
	if last < 1 {
		last = 1
	}
	if page > last {
		return last
	}
	return page
}
