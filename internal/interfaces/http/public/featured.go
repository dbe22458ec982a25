package public

import (
	"context"
	"net/http"
	"time"

	"github.com/sngm3741/karts-club-services/api/internal/interfaces/http/common"
)

// featuredListHandler はトップページ「みんなの作品」パネル用の読み取り専用エンドポイント。
func (h *Handler) featuredListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := h.featured.CurrentFeatured(ctx)
		if err != nil {
			h.logger.Printf("掲載作品の取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": "作品の読み込みに失敗しました。"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, featuredDomainToResponse(entries))
	}
}
