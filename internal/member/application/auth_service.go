package application

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sngm3741/karts-club-services/api/internal/config"
	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

// fourDigitPattern は any4 ポリシーおよび登録パスワードの形式。
var fourDigitPattern = regexp.MustCompile(`^[0-9]{4}$`)

type authService struct {
	bpasswords   BPasswordRepository
	sharedSecret string
	policy       config.BPasswordPolicy
}

// NewAuthService はログイン判定サービスを構築する。
// M / E は共通秘密、B は policy に応じた検証を行う。リモートへの書き込みは一切しない。
func NewAuthService(bpasswords BPasswordRepository, sharedSecret string, policy config.BPasswordPolicy) AuthService {
	return &authService{
		bpasswords:   bpasswords,
		sharedSecret: sharedSecret,
		policy:       policy,
	}
}

func (s *authService) Authenticate(ctx context.Context, rawCode, rawPassword string) (domain.Session, error) {
	code, err := domain.ParseLoginCode(rawCode)
	if err != nil {
		return domain.Session{}, err
	}

	role := code.Role()
	password := strings.TrimSpace(rawPassword)

	switch role {
	case domain.RolePrimary, domain.RoleAdmin:
		if password != s.sharedSecret {
			return domain.Session{}, domain.ErrInvalidPassword
		}
	case domain.RoleSecondary:
		if err := s.verifySecondaryPassword(ctx, code, password); err != nil {
			return domain.Session{}, err
		}
	}

	return domain.Session{Code: code, Role: role}, nil
}

// verifySecondaryPassword は B コードのパスワードをデプロイ設定のポリシーで検証する。
func (s *authService) verifySecondaryPassword(ctx context.Context, code domain.LoginCode, password string) error {
	switch s.policy {
	case config.BPasswordNone:
		return nil
	case config.BPasswordAnyFourDigits:
		if !fourDigitPattern.MatchString(password) {
			return domain.ErrInvalidPassword
		}
		return nil
	default:
		if password == "" {
			return domain.ErrInvalidPassword
		}
		registered, found, err := s.bpasswords.Find(ctx, code)
		if err != nil {
			return fmt.Errorf("B パスワードの取得に失敗: %w", err)
		}
		if !found || registered == "" {
			return domain.ErrPasswordNotConfigured
		}
		if registered != password {
			return domain.ErrInvalidPassword
		}
		return nil
	}
}
