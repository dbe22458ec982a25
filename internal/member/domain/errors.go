package domain

import "errors"

var (
	// ErrInvalidCodeFormat はコードが「M00001」のような形式に一致しない。
	ErrInvalidCodeFormat = errors.New("ログインコードの形式が正しくありません")
	// ErrInvalidPassword はパスワード不一致。
	ErrInvalidPassword = errors.New("パスワードが正しくありません")
	// ErrPasswordNotConfigured は B コードのパスワードが未登録。
	ErrPasswordNotConfigured = errors.New("このコードのパスワードはまだ設定されていません")
	// ErrRoleNotAllowed は操作に必要なロールを持っていない。
	ErrRoleNotAllowed = errors.New("この操作を行う権限がありません")
	// ErrIncompleteArtwork は掲載の前提条件（画像・解説）を満たしていない。
	ErrIncompleteArtwork = errors.New("掲載には写真と解説が必要です")
	// ErrNoImage は削除対象の画像が存在しない。
	ErrNoImage = errors.New("削除する画像がありません")
)
