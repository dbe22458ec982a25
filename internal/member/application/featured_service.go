package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sngm3741/karts-club-services/api/internal/config"
	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

// FeaturedConfig は掲載方式・件数・前提条件の運用設定。
type FeaturedConfig struct {
	Mode           config.FeaturedMode
	Capacity       int
	RequireComment bool
}

// NewFeaturedService は設定された方式の「みんなの作品」サービスを構築する。
// slots 方式では slots リポジトリ、timestamp 方式では artworks リポジトリだけを使う。
func NewFeaturedService(cfg FeaturedConfig, artworks ArtworkRepository, slots FeaturedSlotRepository) FeaturedService {
	if cfg.Mode == config.FeaturedBySlots {
		return &slotFeaturedService{cfg: cfg, artworks: artworks, slots: slots}
	}
	return &timestampFeaturedService{cfg: cfg, artworks: artworks}
}

// checkPromotable は掲載の共通前提条件（ロールと作品内容）を検証する。
func checkPromotable(ctx context.Context, artworks ArtworkRepository, session domain.Session, requireComment bool) (domain.Artwork, error) {
	if !session.Role.CanPromote() {
		return domain.Artwork{}, domain.ErrRoleNotAllowed
	}

	artwork, err := artworks.FindByCode(ctx, session.Code)
	if err != nil {
		return domain.Artwork{}, fmt.Errorf("作品の取得に失敗: %w", err)
	}
	if artwork == nil || !artwork.EligibleForFeature(requireComment) {
		return domain.Artwork{}, domain.ErrIncompleteArtwork
	}
	return *artwork, nil
}

// timestampFeaturedService は featuredAt の新しい順に上位 N 件を導出する方式。
type timestampFeaturedService struct {
	cfg      FeaturedConfig
	artworks ArtworkRepository
}

func (s *timestampFeaturedService) Promote(ctx context.Context, session domain.Session) error {
	if _, err := checkPromotable(ctx, s.artworks, session, s.cfg.RequireComment); err != nil {
		return err
	}

	now := time.Now().UTC()
	featured := true
	patch := domain.ArtworkPatch{Featured: &featured, FeaturedAt: &now}
	if err := s.artworks.Save(ctx, session.Code, session.Role, patch); err != nil {
		return fmt.Errorf("掲載情報の保存に失敗: %w", err)
	}
	return nil
}

func (s *timestampFeaturedService) CurrentFeatured(ctx context.Context) ([]domain.FeaturedArtwork, error) {
	artworks, err := s.artworks.FindFeatured(ctx, s.cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("掲載作品の取得に失敗: %w", err)
	}

	result := make([]domain.FeaturedArtwork, 0, len(artworks))
	for _, artwork := range artworks {
		if len(result) >= s.cfg.Capacity {
			break
		}
		result = append(result, domain.FeaturedArtwork{
			Code:     artwork.Code,
			ImageURL: artwork.ImageURL,
			Comment:  artwork.Comment,
		})
	}
	return result, nil
}

// slotFeaturedService は固定スロットのドキュメントを先頭挿入で書き換える方式。
// あふれたスロットの作品はアーカイブされず、そのまま落ちる。
type slotFeaturedService struct {
	cfg      FeaturedConfig
	artworks ArtworkRepository
	slots    FeaturedSlotRepository
}

func (s *slotFeaturedService) Promote(ctx context.Context, session domain.Session) error {
	artwork, err := checkPromotable(ctx, s.artworks, session, s.cfg.RequireComment)
	if err != nil {
		return err
	}

	current, err := s.slots.Current(ctx)
	if err != nil {
		return fmt.Errorf("掲載スロットの取得に失敗: %w", err)
	}

	entries := make([]domain.FeaturedArtwork, 0, s.cfg.Capacity)
	entries = append(entries, domain.FeaturedArtwork{
		Code:     artwork.Code,
		ImageURL: artwork.ImageURL,
		Comment:  artwork.Comment,
	})
	for _, entry := range current {
		if len(entries) >= s.cfg.Capacity {
			break
		}
		entries = append(entries, entry)
	}

	if err := s.slots.Replace(ctx, entries); err != nil {
		return fmt.Errorf("掲載スロットの更新に失敗: %w", err)
	}
	return nil
}

func (s *slotFeaturedService) CurrentFeatured(ctx context.Context) ([]domain.FeaturedArtwork, error) {
	entries, err := s.slots.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("掲載スロットの取得に失敗: %w", err)
	}
	if len(entries) > s.cfg.Capacity {
		entries = entries[:s.cfg.Capacity]
	}
	return entries, nil
}
