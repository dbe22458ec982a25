package public

import (
	"time"

	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

type loginRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Code      string    `json:"code"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type artworkResponse struct {
	Code       string     `json:"code"`
	ImageURL   *string    `json:"imageUrl"`
	Comment    string     `json:"comment"`
	Featured   bool       `json:"featured"`
	HasImage   bool       `json:"hasImage"`
	HasComment bool       `json:"hasComment"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

type saveArtworkRequest struct {
	Comment  *string `json:"comment"`
	ImageURL *string `json:"imageUrl"`
}

type uploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

type featuredItemResponse struct {
	Code     string  `json:"code"`
	ImageURL *string `json:"imageUrl"`
	Comment  string  `json:"comment"`
}

type featuredListResponse struct {
	Items []featuredItemResponse `json:"items"`
}

// artworkDomainToResponse はドメインの Artwork を公開レスポンスへ変換する。
// 画像なしは null として返し、SPA 側のプレースホルダー判定に使う。
func artworkDomainToResponse(artwork domain.Artwork) artworkResponse {
	resp := artworkResponse{
		Code:       artwork.Code.String(),
		Comment:    artwork.Comment,
		Featured:   artwork.Featured,
		HasImage:   artwork.HasImage(),
		HasComment: artwork.HasComment(),
	}
	if artwork.HasImage() {
		url := artwork.ImageURL
		resp.ImageURL = &url
	}
	if !artwork.UpdatedAt.IsZero() {
		updatedAt := artwork.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// featuredDomainToResponse は掲載エントリを公開レスポンスへ変換する。タイムスタンプ類は出さない。
func featuredDomainToResponse(entries []domain.FeaturedArtwork) featuredListResponse {
	items := make([]featuredItemResponse, 0, len(entries))
	for _, entry := range entries {
		item := featuredItemResponse{
			Code:    entry.Code.String(),
			Comment: entry.Comment,
		}
		if entry.ImageURL != "" {
			url := entry.ImageURL
			item.ImageURL = &url
		}
		items = append(items, item)
	}
	return featuredListResponse{Items: items}
}
