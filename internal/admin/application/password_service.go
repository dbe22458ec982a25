package application

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	admindomain "github.com/sngm3741/karts-club-services/api/internal/admin/domain"
	memberdomain "github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

var bPasswordPattern = regexp.MustCompile(`^[0-9]{4}$`)

type passwordService struct {
	writer      BPasswordWriter
	managerCode memberdomain.LoginCode
}

// NewPasswordService は B パスワード登録サービスを構築する。
// 登録できるのは指定された管理コード（既定 E00002）でログインした管理者だけ。
func NewPasswordService(writer BPasswordWriter, managerCode string) PasswordService {
	return &passwordService{
		writer:      writer,
		managerCode: memberdomain.LoginCode(managerCode),
	}
}

func (s *passwordService) Set(ctx context.Context, session memberdomain.Session, rawCode, rawPassword string) (memberdomain.LoginCode, error) {
	if !session.Role.IsAdmin() || session.Code != s.managerCode {
		return "", memberdomain.ErrRoleNotAllowed
	}

	code, err := memberdomain.ParseLoginCode(rawCode)
	if err != nil {
		return "", err
	}
	if code.Role() != memberdomain.RoleSecondary {
		return "", memberdomain.ErrInvalidCodeFormat
	}

	password := strings.TrimSpace(rawPassword)
	if !bPasswordPattern.MatchString(password) {
		return "", admindomain.ErrInvalidBPassword
	}

	if err := s.writer.Save(ctx, code, password); err != nil {
		return "", fmt.Errorf("B パスワードの保存に失敗: %w", err)
	}
	return code, nil
}
