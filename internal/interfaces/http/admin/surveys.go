package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	adminapp "github.com/sngm3741/karts-club-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/karts-club-services/api/internal/admin/domain"
	"github.com/sngm3741/karts-club-services/api/internal/interfaces/http/common"
)

const maxSurveyRequestBody = 16 << 10

func (h *Handler) surveyReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		report, err := h.surveyService.Report(ctx)
		if err != nil {
			h.logger.Printf("アンケート集計の取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": "アンケート結果の取得に失敗しました。"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, surveyReportToResponse(report))
	}
}

// surveyCreateHandler は 1 件追加し、再集計済みの一覧を返す。
func (h *Handler) surveyCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req surveyCreateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxSurveyRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": admindomain.ErrInvalidEntry.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		cmd := adminapp.AddSurveyCommand{Age: req.Age, Wallet: req.Wallet, FreeComment: req.FreeComment}
		report, err := h.surveyService.Add(ctx, cmd)
		if err != nil {
			if errors.Is(err, admindomain.ErrInvalidEntry) {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			h.logger.Printf("アンケートの追加に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": "保存に失敗しました。"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, surveyReportToResponse(report))
	}
}

// surveyResetHandler は全件削除して空の集計を返す。削除確認ダイアログは SPA 側の責務。
func (h *Handler) surveyResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		report, err := h.surveyService.ResetAll(ctx)
		if err != nil {
			h.logger.Printf("アンケートの全削除に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": "削除に失敗しました。"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, surveyReportToResponse(report))
	}
}
