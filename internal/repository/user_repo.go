package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/freecyberhawk/hakobot/internal/model"
)

var ErrInvalidSort = errors.New("invalid sort option")

type SortField string

const (
	SortByUsername    SortField = "username"
	SortByUsedTraffic SortField = "used_traffic"
	SortByDataLimit   SortField = "data_limit"
	SortByExpire      SortField = "expire"
	SortByCreatedAt   SortField = "created_at"
)

// SortOption is one (field, direction) pair. Only the fields above are accepted.
type SortOption struct {
	Field SortField
	Desc  bool
}

var (
	SortUsernameAsc     = SortOption{Field: SortByUsername}
	SortUsernameDesc    = SortOption{Field: SortByUsername, Desc: true}
	SortUsedTrafficAsc  = SortOption{Field: SortByUsedTraffic}
	SortUsedTrafficDesc = SortOption{Field: SortByUsedTraffic, Desc: true}
	SortDataLimitAsc    = SortOption{Field: SortByDataLimit}
	SortDataLimitDesc   = SortOption{Field: SortByDataLimit, Desc: true}
	SortExpireAsc       = SortOption{Field: SortByExpire}
	SortExpireDesc      = SortOption{Field: SortByExpire, Desc: true}
	SortCreatedAtAsc    = SortOption{Field: SortByCreatedAt}
	SortCreatedAtDesc   = SortOption{Field: SortByCreatedAt, Desc: true}
)

func (f SortField) valid() bool {
	switch f {
	case SortByUsername, SortByUsedTraffic, SortByDataLimit, SortByExpire, SortByCreatedAt:
		return true
	}
	return false
}

// ParseSortOption reads "field" or "-field".
func ParseSortOption(s string) (SortOption, error) {
	opt := SortOption{Field: SortField(strings.TrimPrefix(s, "-")), Desc: strings.HasPrefix(s, "-")}
	if !opt.Field.valid() {
		return SortOption{}, fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
	return opt, nil
}

func (o SortOption) String() string {
	if o.Desc {
		return "-" + string(o.Field)
	}
	return string(o.Field)
}

func (o SortOption) column() clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Table: "users", Name: string(o.Field)},
		Desc:   o.Desc,
	}
}

// UserFilter narrows a user listing. Set fields combine with AND.
type UserFilter struct {
	Search          string // case-insensitive, username or note
	Usernames       []string
	Statuses        []model.UserStatus
	ResetStrategies []model.ResetStrategy
	AdminID         *int64
	AdminUsernames  []string
	Sort            []SortOption
	Offset          int
	Limit           int
	WithCount       bool
}

// UserCountFilter mirrors the two filters the dashboards count by.
type UserCountFilter struct {
	Status  model.UserStatus
	AdminID *int64
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername looks a user up, restricted to one owner when adminID is set.
func (r *UserRepository) GetByUsername(username string, adminID *int64) (*model.User, error) {
	var user model.User
	query := r.db.Where("username = ?", username)
	if adminID != nil {
		query = query.Where("admin_id = ?", *adminID)
	}
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Count(f UserCountFilter) (int64, error) {
	var count int64
	query := r.db.Model(&model.User{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.AdminID != nil {
		query = query.Where("admin_id = ?", *f.AdminID)
	}
	err := query.Count(&count).Error
	return count, err
}

// List returns users matching f. The total is only computed when f.WithCount is
// set and ignores offset and limit.
func (r *UserRepository) List(f UserFilter) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64

	query := r.db.Model(&model.User{})

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(users.username) LIKE ? OR LOWER(users.note) LIKE ?", pattern, pattern)
	}
	if len(f.Usernames) > 0 {
		query = query.Where("users.username IN ?", f.Usernames)
	}
	if len(f.Statuses) > 0 {
		query = query.Where("users.status IN ?", f.Statuses)
	}
	if len(f.ResetStrategies) > 0 {
		query = query.Where("users.data_limit_reset_strategy IN ?", f.ResetStrategies)
	}
	if f.AdminID != nil {
		query = query.Where("users.admin_id = ?", *f.AdminID)
	}
	if len(f.AdminUsernames) > 0 {
		owners := r.db.Model(&model.Admin{}).Select("id").Where("username IN ?", f.AdminUsernames)
		query = query.Where("users.admin_id IN (?)", owners)
	}

	if f.WithCount {
		if err := query.Count(&total).Error; err != nil {
			return nil, 0, err
		}
	}

	for _, opt := range f.Sort {
		if !opt.Field.valid() {
			return nil, 0, fmt.Errorf("%w: %q", ErrInvalidSort, opt.Field)
		}
		query = query.Order(opt.column())
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
