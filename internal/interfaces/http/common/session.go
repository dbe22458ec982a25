package common

import (
	"context"

	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

type contextKey string

const sessionContextKey contextKey = "memberSession"

// MemberSession represents the session-token-derived principal.
type MemberSession struct {
	Code string `json:"code"`
	Role string `json:"role"`
}

// Domain はインターフェース層の主体情報をドメインの Session へ変換する。
func (s MemberSession) Domain() domain.Session {
	return domain.Session{
		Code: domain.LoginCode(s.Code),
		Role: domain.Role(s.Role),
	}
}

// ContextWithSession stores the member session into context.
func ContextWithSession(ctx context.Context, session MemberSession) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext extracts the member session from context.
func SessionFromContext(ctx context.Context) (MemberSession, bool) {
	session, ok := ctx.Value(sessionContextKey).(MemberSession)
	return session, ok
}
