package application

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

type artworkService struct {
	artworks ArtworkRepository
	uploader ImageUploader
}

// NewArtworkService は作品レコードの読み書きサービスを構築する。
func NewArtworkService(artworks ArtworkRepository, uploader ImageUploader) ArtworkService {
	return &artworkService{artworks: artworks, uploader: uploader}
}

// Load はコードの作品を取得する。未作成のコードは空のレコードとして返す。
func (s *artworkService) Load(ctx context.Context, code domain.LoginCode) (domain.Artwork, error) {
	artwork, err := s.artworks.FindByCode(ctx, code)
	if err != nil {
		return domain.Artwork{}, fmt.Errorf("作品の取得に失敗: %w", err)
	}
	if artwork == nil {
		return domain.Artwork{Code: code}, nil
	}
	return *artwork, nil
}

// SaveContent は解説文（とクライアントが把握している画像 URL の再送）を merge-upsert で保存する。
// 指定のないフィールドはリモート側の値を変更しない。
func (s *artworkService) SaveContent(ctx context.Context, session domain.Session, cmd SaveArtworkCommand) error {
	if !session.Role.OwnsArtwork() {
		return domain.ErrRoleNotAllowed
	}

	patch := domain.ArtworkPatch{
		Comment:  cmd.Comment,
		ImageURL: cmd.ImageURL,
	}
	if patch.IsEmpty() {
		return nil
	}

	if err := s.artworks.Save(ctx, session.Code, session.Role, patch); err != nil {
		return fmt.Errorf("作品の保存に失敗: %w", err)
	}
	return nil
}

// AttachImage は画像ホストへアップロードし、返却された URL と publicId を保存する。
// public_id はコード + 現在時刻ミリ秒で毎回一意にし、同一コードの再アップロードでも
// 過去のバイナリを上書きしない。アップロードか保存が失敗した場合は何も永続化しない。
func (s *artworkService) AttachImage(ctx context.Context, session domain.Session, filename string, content io.Reader) (UploadedImage, error) {
	if !session.Role.OwnsArtwork() {
		return UploadedImage{}, domain.ErrRoleNotAllowed
	}

	publicID := fmt.Sprintf("%s_%d", session.Code, time.Now().UnixMilli())
	uploaded, err := s.uploader.Upload(ctx, publicID, filename, content)
	if err != nil {
		return UploadedImage{}, fmt.Errorf("画像のアップロードに失敗: %w", err)
	}

	patch := domain.ArtworkPatch{
		ImageURL:      &uploaded.URL,
		ImagePublicID: &uploaded.PublicID,
	}
	if err := s.artworks.Save(ctx, session.Code, session.Role, patch); err != nil {
		return UploadedImage{}, fmt.Errorf("画像 URL の保存に失敗: %w", err)
	}
	return uploaded, nil
}

// DeleteImage は imageUrl / imagePublicId を null に落とす論理削除。
// 画像ホスト上のバイナリは消さず、featuredAt にも触れない。
func (s *artworkService) DeleteImage(ctx context.Context, session domain.Session) error {
	if !session.Role.OwnsArtwork() {
		return domain.ErrRoleNotAllowed
	}

	artwork, err := s.artworks.FindByCode(ctx, session.Code)
	if err != nil {
		return fmt.Errorf("作品の取得に失敗: %w", err)
	}
	if artwork == nil || !artwork.HasImage() {
		return domain.ErrNoImage
	}

	patch := domain.ArtworkPatch{ClearImage: true}
	if err := s.artworks.Save(ctx, session.Code, session.Role, patch); err != nil {
		return fmt.Errorf("画像の削除に失敗: %w", err)
	}
	return nil
}
