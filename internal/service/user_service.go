package service

import (
	"context"
	"strings"

	"github.com/coachpanel/internal/cache"
	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/logger"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"
)

// UserService 后台用户管理服务
type UserService struct {
	repo         repository.UserRepository
	purchaseRepo repository.PurchaseRepository
}

// NewUserService 创建用户管理服务
func NewUserService(repo repository.UserRepository, purchaseRepo repository.PurchaseRepository) *UserService {
	return &UserService{repo: repo, purchaseRepo: purchaseRepo}
}

// AdminUpdateUserInput 后台更新用户资料输入（nil 字段不更新）
type AdminUpdateUserInput struct {
	FirstName *string
	LastName  *string
	Locale    *string
}

// UserDetail 用户详情（含近期购买记录）
type UserDetail struct {
	User            models.User             `json:"user"`
	RecentPurchases []models.PurchaseRecord `json:"recent_purchases"`
}

// ListUsers 后台查询用户列表
func (s *UserService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.repo.List(filter)
}

// GetUserDetail 后台查询用户详情
func (s *UserService) GetUserDetail(id uint) (*UserDetail, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	purchases, _, err := s.purchaseRepo.List(repository.PurchaseListFilter{
		UserID:   id,
		Page:     1,
		PageSize: 10,
	})
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: *user, RecentPurchases: purchases}, nil
}

// UpdateUser 后台更新用户资料
func (s *UserService) UpdateUser(id uint, input AdminUpdateUserInput) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Locale != nil {
		locale := strings.TrimSpace(*input.Locale)
		if locale != "" {
			user.Locale = locale
		}
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// UpdateUserStatus 后台更新用户状态（禁用立即失效现存令牌）
func (s *UserService) UpdateUserStatus(id uint, rawStatus string) (*models.User, error) {
	status := strings.TrimSpace(rawStatus)
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrNotFound
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Status == status {
		return user, nil
	}

	if err := s.repo.BatchUpdateStatus([]uint{id}, status); err != nil {
		return nil, err
	}
	s.invalidateAuthState([]uint{id})
	return s.repo.GetByID(id)
}

// BatchUpdateUserStatus 后台批量更新用户状态
func (s *UserService) BatchUpdateUserStatus(userIDs []uint, rawStatus string) (int64, error) {
	status := strings.TrimSpace(rawStatus)
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return 0, ErrNotFound
	}

	normalized := make([]uint, 0, len(userIDs))
	seen := make(map[uint]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}
	if len(normalized) == 0 {
		return 0, nil
	}

	if err := s.repo.BatchUpdateStatus(normalized, status); err != nil {
		return 0, err
	}
	s.invalidateAuthState(normalized)
	return int64(len(normalized)), nil
}

// invalidateAuthState 状态变更后清理登录态缓存，缓存不可用时仅记录日志
func (s *UserService) invalidateAuthState(userIDs []uint) {
	if !cache.Enabled() {
		return
	}
	ctx := context.Background()
	for _, id := range userIDs {
		if err := cache.DelUserAuthState(ctx, id); err != nil {
			logger.Warnw("清理用户登录态缓存失败", "user_id", id, "error", err)
		}
	}
}
