package application

import (
	"context"
	"fmt"
	"strings"

	admindomain "github.com/sngm3741/karts-club-services/api/internal/admin/domain"
)

type surveyService struct {
	repo SurveyRepository
}

// NewSurveyService はアンケート集計サービスを構築する。
func NewSurveyService(repo SurveyRepository) SurveyService {
	return &surveyService{repo: repo}
}

// Add は入力検証の後に 1 件追加し、全件を取り直して集計し直した結果を返す。
// 検証エラーの場合はリモートへ一切アクセスしない。
func (s *surveyService) Add(ctx context.Context, cmd AddSurveyCommand) (SurveyReport, error) {
	if cmd.Age == nil || cmd.Wallet == nil || *cmd.Age < 0 || *cmd.Wallet < 0 {
		return SurveyReport{}, admindomain.ErrInvalidEntry
	}

	entry := &admindomain.SurveyEntry{
		Age:         *cmd.Age,
		Wallet:      *cmd.Wallet,
		FreeComment: strings.TrimSpace(cmd.FreeComment),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return SurveyReport{}, fmt.Errorf("アンケートの追加に失敗: %w", err)
	}

	return s.Report(ctx)
}

// Report は全件（createdAt 昇順）と集計を返す。増分の状態は一切持たない。
func (s *surveyService) Report(ctx context.Context) (SurveyReport, error) {
	entries, err := s.repo.FindAllOrdered(ctx)
	if err != nil {
		return SurveyReport{}, fmt.Errorf("アンケート一覧の取得に失敗: %w", err)
	}
	return SurveyReport{
		Entries: entries,
		Summary: admindomain.Summarize(entries),
	}, nil
}

// ResetAll は単一のバッチ削除で全件を消し、空になった状態の集計を返す。
func (s *surveyService) ResetAll(ctx context.Context) (SurveyReport, error) {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return SurveyReport{}, fmt.Errorf("アンケートの全削除に失敗: %w", err)
	}
	return s.Report(ctx)
}
