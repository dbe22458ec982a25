package domain

import (
	"regexp"
	"strings"
)

// Role はログインコードの先頭 1 文字から導出されるアクセス区分。
type Role string

const (
	// RolePrimary (M) は作品ページを持ち、「みんなの作品」への掲載もできる。
	RolePrimary Role = "M"
	// RoleSecondary (B) は作品ページのみを持つ。
	RoleSecondary Role = "B"
	// RoleAdmin (E) はアンケート管理画面を利用する。
	RoleAdmin Role = "E"
)

// codePattern はロール 1 文字 + 5 桁数字のコード形式。
var codePattern = regexp.MustCompile(`^[MBE][0-9]{5}$`)

// LoginCode は正規化済みのログインコード。作品ドキュメントの主キーとしても使う。
type LoginCode string

// ParseLoginCode は入力をトリム・大文字化し、形式検証済みの LoginCode を返す。
func ParseLoginCode(raw string) (LoginCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !codePattern.MatchString(normalized) {
		return "", ErrInvalidCodeFormat
	}
	return LoginCode(normalized), nil
}

// Role はコードの先頭文字からロールを導出する。形式検証済みであることが前提。
func (c LoginCode) Role() Role {
	if c == "" {
		return ""
	}
	return Role(c[0:1])
}

func (c LoginCode) String() string {
	return string(c)
}

// OwnsArtwork は作品ページを持つロールかどうかを返す。
func (r Role) OwnsArtwork() bool {
	return r == RolePrimary || r == RoleSecondary
}

// CanPromote は「みんなの作品」へ掲載できるロールかどうかを返す。
func (r Role) CanPromote() bool {
	return r == RolePrimary
}

// IsAdmin はアンケート管理画面を利用できるロールかどうかを返す。
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Session はログイン成功時に一度だけ構築され、以降の全ハンドラへ明示的に渡される主体情報。
type Session struct {
	Code LoginCode
	Role Role
}
