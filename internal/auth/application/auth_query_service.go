package application

import (
	"context"

	"github.com/dcastano/cafeteriapos/internal/auth/domain"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
)

// AuthQueryService 认证只读查询
type AuthQueryService struct {
	users domain.UserRepository
}

func NewAuthQueryService(users domain.UserRepository) *AuthQueryService {
	return &AuthQueryService{users: users}
}

// Me 返回已认证用户
func (s *AuthQueryService) Me(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "usuario no encontrado")
	}
	return user, nil
}
