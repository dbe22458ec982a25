package admin

import (
	"time"

	adminapp "github.com/sngm3741/karts-club-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/karts-club-services/api/internal/admin/domain"
)

type surveyEntryResponse struct {
	ID          string    `json:"id"`
	Age         int       `json:"age"`
	Wallet      int       `json:"wallet"`
	FreeComment string    `json:"freeComment,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type surveySummaryResponse struct {
	Count      int            `json:"count"`
	MeanAge    float64        `json:"meanAge"`
	MeanWallet int            `json:"meanWallet"`
	Histogram  map[string]int `json:"histogram"`
}

type surveyReportResponse struct {
	Items   []surveyEntryResponse `json:"items"`
	Summary surveySummaryResponse `json:"summary"`
}

type surveyCreateRequest struct {
	Age         *int   `json:"age"`
	Wallet      *int   `json:"wallet"`
	FreeComment string `json:"freeComment"`
}

type bPasswordSetRequest struct {
	Password string `json:"password"`
}

// surveyReportToResponse はアプリケーション層の集計結果を JSON レスポンスへ変換する。
func surveyReportToResponse(report adminapp.SurveyReport) surveyReportResponse {
	items := make([]surveyEntryResponse, 0, len(report.Entries))
	for _, entry := range report.Entries {
		items = append(items, surveyEntryResponse{
			ID:          entry.ID,
			Age:         entry.Age,
			Wallet:      entry.Wallet,
			FreeComment: entry.FreeComment,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return surveyReportResponse{
		Items:   items,
		Summary: summaryToResponse(report.Summary),
	}
}

func summaryToResponse(summary admindomain.Summary) surveySummaryResponse {
	return surveySummaryResponse{
		Count:      summary.Count,
		MeanAge:    summary.MeanAge,
		MeanWallet: summary.MeanWallet,
		Histogram:  summary.Histogram,
	}
}
