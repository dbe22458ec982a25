package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	admindomain "github.com/sngm3741/karts-club-services/api/internal/admin/domain"
	"github.com/sngm3741/karts-club-services/api/internal/interfaces/http/common"
	memberdomain "github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

const maxBPasswordRequestBody = 4 << 10

// bPasswordSetHandler は B コードの 4 桁パスワードを登録する。
// 管理コード（既定 E00002）でのログイン以外はアプリケーション層で拒否される。
func (h *Handler) bPasswordSetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := common.SessionFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
			return
		}

		var req bPasswordSetRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBPasswordRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		code, err := h.passwordService.Set(ctx, session.Domain(), chi.URLParam(r, "code"), req.Password)
		if err != nil {
			h.writeBPasswordError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{
			"status":  "ok",
			"code":    code.String(),
			"message": fmt.Sprintf("コード %s のパスワードを設定しました。", code),
		})
	}
}

func (h *Handler) writeBPasswordError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, memberdomain.ErrRoleNotAllowed):
		common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{"error": "この操作を行う権限がありません。"})
	case errors.Is(err, memberdomain.ErrInvalidCodeFormat):
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "コードは B00001 のように入力してください。"})
	case errors.Is(err, admindomain.ErrInvalidBPassword):
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.logger.Printf("B パスワードの登録に失敗: %v", err)
		common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": "保存に失敗しました。時間をおいて再試行してください。"})
	}
}
