package application

import (
	"context"

	admindomain "github.com/sngm3741/karts-club-services/api/internal/admin/domain"
	memberdomain "github.com/sngm3741/karts-club-services/api/internal/member/domain"
)

// SurveyRepository exposes persistence for survey entries.
type SurveyRepository interface {
	Insert(ctx context.Context, entry *admindomain.SurveyEntry) error
	FindAllOrdered(ctx context.Context) ([]admindomain.SurveyEntry, error)
	DeleteAll(ctx context.Context) error
}

// BPasswordWriter persists per-code secondary-role passwords.
type BPasswordWriter interface {
	Save(ctx context.Context, code memberdomain.LoginCode, password string) error
}

// SurveyService describes admin survey use-cases.
type SurveyService interface {
	Add(ctx context.Context, cmd AddSurveyCommand) (SurveyReport, error)
	Report(ctx context.Context) (SurveyReport, error)
	ResetAll(ctx context.Context) (SurveyReport, error)
}

// PasswordService describes B-password registration.
type PasswordService interface {
	Set(ctx context.Context, session memberdomain.Session, rawCode, rawPassword string) (memberdomain.LoginCode, error)
}

// AddSurveyCommand はアンケート追加の入力。Age / Wallet は欠落を検出するためポインタで受ける。
type AddSurveyCommand struct {
	Age         *int
	Wallet      *int
	FreeComment string
}

// SurveyReport は一覧（createdAt 昇順）と再計算済みの集計をまとめた応答。
type SurveyReport struct {
	Entries []admindomain.SurveyEntry
	Summary admindomain.Summary
}
