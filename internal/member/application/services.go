package application

import (
	"context"
	"io"

	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

// ArtworkRepository は作品ドキュメントの読み書きを抽象化する。
// FindByCode は存在しないコードに対して (nil, nil) を返す。欠落はエラーではない。
type ArtworkRepository interface {
	FindByCode(ctx context.Context, code domain.LoginCode) (*domain.Artwork, error)
	Save(ctx context.Context, code domain.LoginCode, role domain.Role, patch domain.ArtworkPatch) error
	FindFeatured(ctx context.Context, limit int) ([]domain.Artwork, error)
}

// BPasswordRepository は B コード別パスワードの参照を抽象化する。
type BPasswordRepository interface {
	Find(ctx context.Context, code domain.LoginCode) (password string, found bool, err error)
}

// FeaturedSlotRepository は固定スロット方式の掲載ドキュメントを抽象化する。
type FeaturedSlotRepository interface {
	Current(ctx context.Context) ([]domain.FeaturedArtwork, error)
	Replace(ctx context.Context, entries []domain.FeaturedArtwork) error
}

// UploadedImage は画像ホストへのアップロード結果。
type UploadedImage struct {
	URL      string
	PublicID string
}

// ImageUploader は画像ホストへのバイナリアップロードを抽象化する。
// publicID は呼び出し側が試行ごとに一意な値を渡す。
type ImageUploader interface {
	Upload(ctx context.Context, publicID, filename string, content io.Reader) (UploadedImage, error)
}

// AuthService describes the login use-case.
type AuthService interface {
	Authenticate(ctx context.Context, rawCode, rawPassword string) (domain.Session, error)
}

// ArtworkService describes member artwork use-cases.
type ArtworkService interface {
	Load(ctx context.Context, code domain.LoginCode) (domain.Artwork, error)
	SaveContent(ctx context.Context, session domain.Session, cmd SaveArtworkCommand) error
	AttachImage(ctx context.Context, session domain.Session, filename string, content io.Reader) (UploadedImage, error)
	DeleteImage(ctx context.Context, session domain.Session) error
}

// FeaturedService describes the public showcase use-cases.
type FeaturedService interface {
	Promote(ctx context.Context, session domain.Session) error
	CurrentFeatured(ctx context.Context) ([]domain.FeaturedArtwork, error)
}

// SaveArtworkCommand は作品保存の入力。nil のフィールドは変更しない。
// ImageURL はクライアントが把握している URL の再送を受け付ける（後勝ちの仕様）。
type SaveArtworkCommand struct {
	Comment  *string
	ImageURL *string
}
