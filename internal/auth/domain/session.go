package domain

import "time"

// Session 一次已签发令牌对应的会话。令牌只在其会话存在期间有效：
// 注销删除会话，刷新轮换会话。
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
