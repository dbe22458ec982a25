package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sngm3741/karts-club-services/api/internal/interfaces/http/common"
	memberapp "github.com/sngm3741/karts-club-services/api/internal/member/application"
	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

const maxSaveRequestBody = 64 << 10

func (h *Handler) artworkGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.artworkSession(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		artwork, err := h.artworks.Load(ctx, session.Code)
		if err != nil {
			h.logger.Printf("作品の取得に失敗 code=%s err=%v", session.Code, err)
			common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": "作品の読み込みに失敗しました。"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, artworkDomainToResponse(artwork))
	}
}

func (h *Handler) artworkSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.artworkSession(w, r)
		if !ok {
			return
		}

		var req saveArtworkRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxSaveRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		cmd := memberapp.SaveArtworkCommand{Comment: req.Comment, ImageURL: req.ImageURL}
		if err := h.artworks.SaveContent(ctx, session, cmd); err != nil {
			h.writeArtworkError(w, err, "保存に失敗しました。")
			return
		}

		artwork, err := h.artworks.Load(ctx, session.Code)
		if err != nil {
			h.logger.Printf("保存後の再取得に失敗 code=%s err=%v", session.Code, err)
			common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "saved"})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, artworkDomainToResponse(artwork))
	}
}

// artworkImageUploadHandler は multipart の file フィールドを受け取り画像ホストへ転送する。
// 失敗時は何も保存されないため、応答の reverted フラグで SPA 側のプレビュー巻き戻しを指示する。
func (h *Handler) artworkImageUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.artworkSession(w, r)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "画像ファイルを指定してください。"})
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		uploaded, err := h.artworks.AttachImage(ctx, session, header.Filename, file)
		if err != nil {
			h.logger.Printf("画像アップロードに失敗 code=%s err=%v", session.Code, err)
			common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]any{
				"error":    "アップロードに失敗しました。時間をおいて再試行してください。",
				"reverted": true,
			})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, uploadImageResponse{
			ImageURL: uploaded.URL,
			PublicID: uploaded.PublicID,
		})
	}
}

func (h *Handler) artworkImageDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.artworkSession(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.artworks.DeleteImage(ctx, session); err != nil {
			if errors.Is(err, domain.ErrNoImage) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "削除する画像がありません。"})
				return
			}
			h.writeArtworkError(w, err, "削除に失敗しました。")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func (h *Handler) artworkFeatureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.artworkSession(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.featured.Promote(ctx, session); err != nil {
			switch {
			case errors.Is(err, domain.ErrRoleNotAllowed):
				common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{"error": "この操作を行う権限がありません。"})
			case errors.Is(err, domain.ErrIncompleteArtwork):
				common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": err.Error()})
			default:
				h.logger.Printf("掲載処理に失敗 code=%s err=%v", session.Code, err)
				common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": "反映に失敗しました。時間をおいて再試行してください。"})
			}
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{
			"status":  "featured",
			"message": "トップページの「みんなの作品」に反映されました。",
		})
	}
}

// artworkSession はコンテキストから作品ページを操作できる主体を取り出す。
// M / B 以外のロールはここで弾く。
func (h *Handler) artworkSession(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	raw, ok := common.SessionFromContext(r.Context())
	if !ok {
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
		return domain.Session{}, false
	}

	session := raw.Domain()
	if !session.Role.OwnsArtwork() {
		common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{"error": "この操作を行う権限がありません。"})
		return domain.Session{}, false
	}
	return session, true
}

// writeArtworkError は作品操作の失敗を 4xx / 5xx へ振り分ける。
func (h *Handler) writeArtworkError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, domain.ErrRoleNotAllowed) {
		common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{"error": "この操作を行う権限がありません。"})
		return
	}
	h.logger.Printf("作品操作でリモートエラー: %v", err)
	common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": fallback})
}
