package application

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dcastano/cafeteriapos/internal/auth/domain"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
	"github.com/dcastano/cafeteriapos/pkg/middleware"
)

// Claims JWT 负载
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenResult 签发结果
type TokenResult struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
	ExpiresAt int64  `json:"expires_at"`
}

// TokenService 签发与校验访问令牌。令牌本身是 HMAC 签名的 JWT，
// 其 jti 对应一条 Redis 会话；会话不存在即视为已注销。
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	sessions domain.SessionRepository
}

func NewTokenService(secret string, ttl time.Duration, sessions domain.SessionRepository) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, sessions: sessions}
}

// Issue 为用户签发新令牌并创建会话
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (*TokenResult, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	jti := uuid.New().String()

	claims := Claims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnexpected, "no se pudo firmar el token", err)
	}

	session := &domain.Session{
		ID:        jti,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &TokenResult{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt.Unix()}, nil
}

// Verify 校验令牌签名与有效期，并确认会话仍然存在
func (s *TokenService) Verify(ctx context.Context, raw string) (*middleware.Identity, error) {
	session, err := s.validSession(ctx, raw)
	if err != nil {
		return nil, err
	}

	capabilities := session.Role.Capabilities()
	caps := make([]string, 0, len(capabilities))
	for _, c := range capabilities {
		caps = append(caps, string(c))
	}

	return &middleware.Identity{
		UserID:       session.UserID,
		Email:        session.Email,
		Role:         string(session.Role),
		Capabilities: caps,
	}, nil
}

// Revoke 删除令牌对应的会话，令牌随即失效
func (s *TokenService) Revoke(ctx context.Context, raw string) error {
	session, err := s.validSession(ctx, raw)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, session.ID)
}

// Refresh 轮换会话：删除旧会话并签发新令牌
func (s *TokenService) Refresh(ctx context.Context, raw string) (*TokenResult, error) {
	session, err := s.validSession(ctx, raw)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return nil, err
	}

	user := &domain.User{ID: session.UserID, Email: session.Email, Role: session.Role}
	return s.Issue(ctx, user)
}

func (s *TokenService) validSession(ctx context.Context, raw string) (*domain.Session, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.New(apperrors.KindAuthFailed, "token no proporcionado o inválido")
	}
	return session, nil
}

func (s *TokenService) parse(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Newf(apperrors.KindAuthFailed, "método de firma inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindAuthFailed, "token no proporcionado o inválido", err)
	}
	return &claims, nil
}
