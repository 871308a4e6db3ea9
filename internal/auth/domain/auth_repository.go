package domain

import "context"

type UserRepository interface {
	Save(ctx context.Context, user *User) error
	// GetByEmail 未找到时返回 (nil, nil)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID 未找到时返回 (nil, nil)
	GetByID(ctx context.Context, id uint) (*User, error)
}

type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	// Get 未找到或已过期时返回 (nil, nil)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
