package application

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

// fakeArtworkRepo は merge-upsert の挙動をメモリ上で再現するリポジトリ。
type fakeArtworkRepo struct {
	artworks map[domain.LoginCode]*domain.Artwork
	findErr  error
	saveErr  error
	saved    []domain.ArtworkPatch
}

func newFakeArtworkRepo() *fakeArtworkRepo {
	return &fakeArtworkRepo{artworks: make(map[domain.LoginCode]*domain.Artwork)}
}

func (f *fakeArtworkRepo) FindByCode(_ context.Context, code domain.LoginCode) (*domain.Artwork, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	artwork, ok := f.artworks[code]
	if !ok {
		return nil, nil
	}
	copied := *artwork
	return &copied, nil
}

func (f *fakeArtworkRepo) Save(_ context.Context, code domain.LoginCode, role domain.Role, patch domain.ArtworkPatch) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, patch)

	artwork, ok := f.artworks[code]
	if !ok {
		artwork = &domain.Artwork{Code: code}
		f.artworks[code] = artwork
	}

	if patch.ClearImage {
		artwork.ImageURL = ""
		artwork.ImagePublicID = ""
	} else {
		if patch.ImageURL != nil {
			artwork.ImageURL = *patch.ImageURL
		}
		if patch.ImagePublicID != nil {
			artwork.ImagePublicID = *patch.ImagePublicID
		}
	}
	if patch.Comment != nil {
		artwork.Comment = *patch.Comment
	}
	if patch.Featured != nil {
		artwork.Featured = *patch.Featured
	}
	if patch.FeaturedAt != nil {
		featuredAt := *patch.FeaturedAt
		artwork.FeaturedAt = &featuredAt
	}
	artwork.UpdatedAt = time.Now().UTC()
	_ = role
	return nil
}

func (f *fakeArtworkRepo) FindFeatured(_ context.Context, limit int) ([]domain.Artwork, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var featured []domain.Artwork
	for _, artwork := range f.artworks {
		if artwork.Code.Role() == domain.RolePrimary && artwork.FeaturedAt != nil {
			featured = append(featured, *artwork)
		}
	}
	sort.Slice(featured, func(i, j int) bool {
		return featured[i].FeaturedAt.After(*featured[j].FeaturedAt)
	})
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

// fakeBPasswordRepo は登録済み B パスワードのメモリ実装。
type fakeBPasswordRepo struct {
	passwords map[domain.LoginCode]string
	findErr   error
}

func newFakeBPasswordRepo() *fakeBPasswordRepo {
	return &fakeBPasswordRepo{passwords: make(map[domain.LoginCode]string)}
}

func (f *fakeBPasswordRepo) Find(_ context.Context, code domain.LoginCode) (string, bool, error) {
	if f.findErr != nil {
		return "", false, f.findErr
	}
	password, ok := f.passwords[code]
	return password, ok, nil
}

// fakeSlotRepo は固定スロットドキュメントのメモリ実装。
type fakeSlotRepo struct {
	entries    []domain.FeaturedArtwork
	currentErr error
	replaceErr error
}

func (f *fakeSlotRepo) Current(_ context.Context) ([]domain.FeaturedArtwork, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return append([]domain.FeaturedArtwork(nil), f.entries...), nil
}

func (f *fakeSlotRepo) Replace(_ context.Context, entries []domain.FeaturedArtwork) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.entries = append([]domain.FeaturedArtwork(nil), entries...)
	return nil
}

// fakeUploader は画像ホストの応答を差し替え可能にするアップローダ。
type fakeUploader struct {
	result        UploadedImage
	err           error
	gotPublicID   string
	gotFilename   string
	uploadedBytes int
}

func (f *fakeUploader) Upload(_ context.Context, publicID, filename string, content io.Reader) (UploadedImage, error) {
	f.gotPublicID = publicID
	f.gotFilename = filename
	data, _ := io.ReadAll(content)
	f.uploadedBytes = len(data)
	if f.err != nil {
		return UploadedImage{}, f.err
	}
	return f.result, nil
}

var errRemote = errors.New("remote unavailable")

func fixedTime(t *testing.T) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, "2026-04-01T12:00:00Z")
	if err != nil {
		t.Fatalf("time parse: %v", err)
	}
	return parsed
}
