package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dcastano/cafeteriapos/pkg/apperrors"
	"github.com/dcastano/cafeteriapos/pkg/response"
)

// IdentityKey gin context key 存放认证身份
const IdentityKey = "auth_identity"

// TokenKey gin context key 存放原始令牌
const TokenKey = "auth_token"

// Identity 认证后的调用者身份
type Identity struct {
	UserID       uint
	Email        string
	Role         string
	Capabilities []string
}

// HasCapability 判断身份是否持有指定能力
func (i *Identity) HasCapability(capability string) bool {
	for _, c := range i.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// TokenVerifier 校验令牌并返回身份，令牌无效或会话已注销时返回错误
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Authenticated 解析 Bearer 令牌并把身份写入 context，
// 任何入口的业务逻辑执行前都必须经过它
func Authenticated(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Abort()
			response.Error(c, apperrors.New(apperrors.KindAuthFailed, "token no proporcionado o inválido"))
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			c.Abort()
			response.Error(c, err)
			return
		}

		c.Set(IdentityKey, identity)
		c.Set(TokenKey, raw)
		c.Next()
	}
}

// RequireCapability 要求已认证身份持有指定能力，需在 Authenticated 之后使用
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if identity == nil {
			c.Abort()
			response.Error(c, apperrors.New(apperrors.KindAuthFailed, "token no proporcionado o inválido"))
			return
		}
		if !identity.HasCapability(capability) {
			c.Abort()
			response.Error(c, apperrors.Newf(apperrors.KindUnauthorized, "se requiere el permiso %q", capability))
			return
		}
		c.Next()
	}
}

// IdentityFrom 读取 Authenticated 写入的身份，未认证返回 nil
func IdentityFrom(c *gin.Context) *Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*Identity)
	if !ok {
		return nil
	}
	return identity
}

// RawTokenFrom 读取 Authenticated 写入的原始令牌
func RawTokenFrom(c *gin.Context) string {
	return c.GetString(TokenKey)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
