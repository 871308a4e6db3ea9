package application

import (
	"context"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"github.com/dcastano/cafeteriapos/internal/auth/domain"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// AuthCommandService 认证命令服务
type AuthCommandService struct {
	users  domain.UserRepository
	tokens *TokenService
}

// NewAuthCommandService 创建认证命令服务实例
func NewAuthCommandService(users domain.UserRepository, tokens *TokenService) *AuthCommandService {
	return &AuthCommandService{users: users, tokens: tokens}
}

// Register 处理用户注册，新用户固定分配销售角色
func (s *AuthCommandService) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	fields := map[string][]string{}
	if cmd.Name == "" {
		fields["name"] = append(fields["name"], "el campo es obligatorio")
	}
	if len(cmd.Name) > 100 {
		fields["name"] = append(fields["name"], "no debe superar 100 caracteres")
	}
	if _, err := mail.ParseAddress(cmd.Email); err != nil || cmd.Email == "" {
		fields["email"] = append(fields["email"], "debe ser un correo válido")
	}
	if len(cmd.Password) < 6 {
		fields["password"] = append(fields["password"], "debe tener al menos 6 caracteres")
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields("error de validación", fields)
	}

	existing, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.WithFields("error de validación", map[string][]string{
			"email": {"el correo ya está registrado"},
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnexpected, "no se pudo cifrar la contraseña", err)
	}

	user := domain.NewUser(cmd.Name, cmd.Email, string(hash))
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login 校验凭证并签发令牌
func (s *AuthCommandService) Login(ctx context.Context, cmd LoginCommand) (*TokenResult, error) {
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.New(apperrors.KindAuthFailed, "credenciales incorrectas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, apperrors.New(apperrors.KindAuthFailed, "credenciales incorrectas")
	}

	return s.tokens.Issue(ctx, user)
}

// Logout 注销令牌对应的会话
func (s *AuthCommandService) Logout(ctx context.Context, rawToken string) error {
	return s.tokens.Revoke(ctx, rawToken)
}

// Refresh 刷新令牌
func (s *AuthCommandService) Refresh(ctx context.Context, rawToken string) (*TokenResult, error) {
	return s.tokens.Refresh(ctx, rawToken)
}
