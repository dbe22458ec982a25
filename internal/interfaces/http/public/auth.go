package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sngm3741/karts-club-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

const maxLoginRequestBody = 4 << 10

func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxLoginRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := h.auth.Authenticate(ctx, req.Code, req.Password)
		if err != nil {
			h.writeLoginError(w, err)
			return
		}

		token, expiresAt, err := h.issueToken(session.Code.String(), string(session.Role))
		if err != nil {
			h.logger.Printf("セッショントークンの発行に失敗 code=%s err=%v", session.Code, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "ログインに失敗しました。時間をおいて再度お試しください。"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, loginResponse{
			Token:     token,
			Code:      session.Code.String(),
			Role:      string(session.Role),
			ExpiresAt: expiresAt,
		})
	}
}

// writeLoginError はログイン失敗をユーザー向けメッセージへ変換する。
// 検証エラーはそのまま返し、リモート障害は汎用メッセージに丸める。
func (h *Handler) writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCodeFormat):
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "「B00001」のようにアルファベット1文字 + 5桁の数字で入力してください。"})
	case errors.Is(err, domain.ErrInvalidPassword):
		common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "パスワードが正しくありません。"})
	case errors.Is(err, domain.ErrPasswordNotConfigured):
		common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "このコードのパスワードはまだ設定されていません。スタッフに確認してください。"})
	default:
		h.logger.Printf("ログイン処理でリモートエラー: %v", err)
		common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": "ログインに失敗しました。時間をおいて再度お試しください。"})
	}
}

func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := common.SessionFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報の取得に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status":  "ok",
			"session": session,
		})
	}
}
