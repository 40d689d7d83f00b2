package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/config"
	"github.com/freecyberhawk/hakobot/internal/model"
	"github.com/freecyberhawk/hakobot/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewUserService(userRepo *repository.UserRepository, cfg *config.Config) *UserService {
	return &UserService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

type UserPage struct {
	Users []*model.User
	Total int64
	Page  int
}

// scope limits non-sudo admins to the users they own.
func scope(admin *model.Admin) *int64 {
	if admin.IsSudo {
		return nil
	}
	return &admin.ID
}

// Count returns how many users admin can see.
func (s *UserService) Count(admin *model.Admin) (int64, error) {
	return s.userRepo.Count(repository.UserCountFilter{AdminID: scope(admin)})
}

// CountOwned counts the users adminID created, whatever its privileges.
func (s *UserService) CountOwned(adminID int64) (int64, error) {
	return s.userRepo.Count(repository.UserCountFilter{AdminID: &adminID})
}

// Page loads one page of the user list, newest first.
func (s *UserService) Page(admin *model.Admin, page int) (*UserPage, error) {
	return s.list(admin, "", page)
}

// Search pages through users whose username or note contains query.
func (s *UserService) Search(admin *model.Admin, query string, page int) (*UserPage, error) {
	return s.list(admin, query, page)
}

func (s *UserService) list(admin *model.Admin, search string, page int) (*UserPage, error) {
	pageSize := s.cfg.Bot.PageSize
	filter := repository.UserFilter{
		Search:  search,
		AdminID: scope(admin),
	}

	filter.WithCount = true
	filter.Limit = 1
	_, total, err := s.userRepo.List(filter)
	if err != nil {
		return nil, err
	}

	page = clampPage(page, pageSize, total)
	filter.WithCount = false
	filter.Sort = []repository.SortOption{repository.SortCreatedAtDesc}
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	users, _, err := s.userRepo.List(filter)
	if err != nil {
		return nil, err
	}

	return &UserPage{Users: users, Total: total, Page: page}, nil
}

// Detail returns one user, hidden from admins who do not own it.
func (s *UserService) Detail(admin *model.Admin, username string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(username, scope(admin))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
