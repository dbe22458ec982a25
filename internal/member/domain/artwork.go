package domain

import (
	"strings"
	"time"
)

// Artwork はコードを主キーとする作品レコード。画像とコメントは独立して存在しうる。
type Artwork struct {
	Code          LoginCode
	ImageURL      string
	ImagePublicID string
	Comment       string
	Featured      bool
	FeaturedAt    *time.Time
	UpdatedAt     time.Time
}

// HasImage は画像 URL が保存済みかどうかを返す。
func (a Artwork) HasImage() bool {
	return strings.TrimSpace(a.ImageURL) != ""
}

// HasComment は解説文が入力済みかどうかを返す。
func (a Artwork) HasComment() bool {
	return strings.TrimSpace(a.Comment) != ""
}

// EligibleForFeature は掲載の前提条件を判定する。
// strict の場合は画像と解説の両方、そうでなければどちらか一方があればよい。
func (a Artwork) EligibleForFeature(requireComment bool) bool {
	if requireComment {
		return a.HasImage() && a.HasComment()
	}
	return a.HasImage() || a.HasComment()
}

// ArtworkPatch は merge-upsert の差分。nil のフィールドはリモート側の値を変更しない。
// ClearImage は画像 URL / publicId を明示的に null へ落とすためのフラグ。
type ArtworkPatch struct {
	ImageURL      *string
	ImagePublicID *string
	Comment       *string
	ClearImage    bool
	Featured      *bool
	FeaturedAt    *time.Time
}

// IsEmpty は適用すべき差分が何もないかどうかを返す。
func (p ArtworkPatch) IsEmpty() bool {
	return p.ImageURL == nil && p.ImagePublicID == nil && p.Comment == nil &&
		!p.ClearImage && p.Featured == nil && p.FeaturedAt == nil
}

// FeaturedArtwork は「みんなの作品」へ表示する公開ビュー。タイムスタンプは含めない。
type FeaturedArtwork struct {
	Code     LoginCode
	ImageURL string
	Comment  string
}
