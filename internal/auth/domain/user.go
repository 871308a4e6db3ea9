package domain

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleSeller UserRole = "SELLER"
)

// Capability 一个入口在执行业务逻辑前要求的命名权限
type Capability string

const (
	CapabilityAdminister Capability = "administer"
	CapabilitySell       Capability = "sell"
	CapabilityQuery      Capability = "query"
)

var roleCapabilities = map[UserRole][]Capability{
	RoleAdmin:  {CapabilityAdminister, CapabilitySell, CapabilityQuery},
	RoleSeller: {CapabilitySell, CapabilityQuery},
}

// Capabilities 返回角色持有的能力集合
func (r UserRole) Capabilities() []Capability {
	return roleCapabilities[r]
}

// Can 判断角色是否持有指定能力
func (r UserRole) Can(c Capability) bool {
	for _, held := range roleCapabilities[r] {
		if held == c {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
}

// NewUser 注册时固定分配销售角色
func NewUser(name, email, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleSeller,
	}
}
