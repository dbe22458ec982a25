package domain

import "errors"

var (
	// ErrInvalidEntry は年齢か財布の中身が非負整数として解釈できない。
	ErrInvalidEntry = errors.New("年齢と財布の中身を正しく入力してください")
	// ErrInvalidBPassword は登録するパスワードが 4 桁の数字ではない。
	ErrInvalidBPassword = errors.New("パスワードは4桁の数字で入力してください")
)
