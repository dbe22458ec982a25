package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/karts-club-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/karts-club-services/api/internal/admin/domain"
	"github.com/sngm3741/karts-club-services/api/internal/interfaces/http/common"
	memberdomain "github.com/sngm3741/karts-club-services/api/internal/member/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSurveyService struct {
	report   adminapp.SurveyReport
	addErr   error
	findErr  error
	resetErr error
	gotCmd   *adminapp.AddSurveyCommand
}

func (s *stubSurveyService) Add(_ context.Context, cmd adminapp.AddSurveyCommand) (adminapp.SurveyReport, error) {
	s.gotCmd = &cmd
	if s.addErr != nil {
		return adminapp.SurveyReport{}, s.addErr
	}
	return s.report, nil
}

func (s *stubSurveyService) Report(context.Context) (adminapp.SurveyReport, error) {
	if s.findErr != nil {
		return adminapp.SurveyReport{}, s.findErr
	}
	return s.report, nil
}

func (s *stubSurveyService) ResetAll(context.Context) (adminapp.SurveyReport, error) {
	if s.resetErr != nil {
		return adminapp.SurveyReport{}, s.resetErr
	}
	return adminapp.SurveyReport{Summary: admindomain.Summarize(nil)}, nil
}

type stubPasswordService struct {
	setErr      error
	gotSession  memberdomain.Session
	gotCode     string
	gotPassword string
}

func (s *stubPasswordService) Set(_ context.Context, session memberdomain.Session, rawCode, rawPassword string) (memberdomain.LoginCode, error) {
	s.gotSession = session
	s.gotCode = rawCode
	s.gotPassword = rawPassword
	if s.setErr != nil {
		return "", s.setErr
	}
	return "B00010", nil
}

func newAdminRouter(surveys *stubSurveyService, passwords *stubPasswordService, session common.MemberSession) http.Handler {
	handler := NewHandler(Config{
		Logger:          log.New(io.Discard, "", 0),
		SurveyService:   surveys,
		PasswordService: passwords,
	})

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(common.ContextWithSession(r.Context(), session)))
		})
	})
	handler.Register(router)
	return router
}

func managerSession() common.MemberSession {
	return common.MemberSession{Code: "E00002", Role: "E"}
}

func sampleReport() adminapp.SurveyReport {
	entries := []admindomain.SurveyEntry{
		{ID: "id-1", Age: 25, Wallet: 3000, CreatedAt: time.Now().UTC()},
		{ID: "id-2", Age: 65, Wallet: 1000, FreeComment: "コースが広い", CreatedAt: time.Now().UTC()},
	}
	return adminapp.SurveyReport{Entries: entries, Summary: admindomain.Summarize(entries)}
}

func TestSurveyReportHandler(t *testing.T) {
	surveys := &stubSurveyService{report: sampleReport()}
	router := newAdminRouter(surveys, &stubPasswordService{}, managerSession())

	req := httptest.NewRequest(http.MethodGet, "/surveys", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body surveyReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, 2, body.Summary.Count)
	assert.Equal(t, 45.0, body.Summary.MeanAge)
	assert.Equal(t, 2000, body.Summary.MeanWallet)
	assert.Equal(t, map[string]int{"0-39": 1, "40-64": 0, "65+": 1}, body.Summary.Histogram)
}

func TestSurveyReportHandlerRemoteFailure(t *testing.T) {
	surveys := &stubSurveyService{findErr: errors.New("mongo down")}
	router := newAdminRouter(surveys, &stubPasswordService{}, managerSession())

	req := httptest.NewRequest(http.MethodGet, "/surveys", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSurveyCreateHandler(t *testing.T) {
	t.Run("追加後の再集計を 201 で返す", func(t *testing.T) {
		surveys := &stubSurveyService{report: sampleReport()}
		router := newAdminRouter(surveys, &stubPasswordService{}, managerSession())

		req := httptest.NewRequest(http.MethodPost, "/surveys", strings.NewReader(`{"age":25,"wallet":3000,"freeComment":"楽しかった"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, surveys.gotCmd)
		require.NotNil(t, surveys.gotCmd.Age)
		assert.Equal(t, 25, *surveys.gotCmd.Age)
		assert.Equal(t, "楽しかった", surveys.gotCmd.FreeComment)
	})

	t.Run("検証エラーは 400", func(t *testing.T) {
		surveys := &stubSurveyService{addErr: admindomain.ErrInvalidEntry}
		router := newAdminRouter(surveys, &stubPasswordService{}, managerSession())

		req := httptest.NewRequest(http.MethodPost, "/surveys", strings.NewReader(`{"wallet":3000}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("不正な JSON は 400", func(t *testing.T) {
		router := newAdminRouter(&stubSurveyService{}, &stubPasswordService{}, managerSession())

		req := httptest.NewRequest(http.MethodPost, "/surveys", strings.NewReader(`{age:`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSurveyResetHandler(t *testing.T) {
	surveys := &stubSurveyService{report: sampleReport()}
	router := newAdminRouter(surveys, &stubPasswordService{}, managerSession())

	req := httptest.NewRequest(http.MethodDelete, "/surveys", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body surveyReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Items)
	assert.Equal(t, 0, body.Summary.Count)
	assert.Equal(t, map[string]int{"0-39": 0, "40-64": 0, "65+": 0}, body.Summary.Histogram)
}

func TestBPasswordSetHandler(t *testing.T) {
	t.Run("登録成功", func(t *testing.T) {
		passwords := &stubPasswordService{}
		router := newAdminRouter(&stubSurveyService{}, passwords, managerSession())

		req := httptest.NewRequest(http.MethodPut, "/b-passwords/B00010", strings.NewReader(`{"password":"4567"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, memberdomain.LoginCode("E00002"), passwords.gotSession.Code)
		assert.Equal(t, "B00010", passwords.gotCode)
		assert.Equal(t, "4567", passwords.gotPassword)
	})

	t.Run("失敗をステータスへ写像する", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{name: "権限なし", err: memberdomain.ErrRoleNotAllowed, wantStatus: http.StatusForbidden},
			{name: "コード形式不正", err: memberdomain.ErrInvalidCodeFormat, wantStatus: http.StatusBadRequest},
			{name: "パスワード形式不正", err: admindomain.ErrInvalidBPassword, wantStatus: http.StatusBadRequest},
			{name: "リモート障害", err: errors.New("mongo down"), wantStatus: http.StatusBadGateway},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				passwords := &stubPasswordService{setErr: tt.err}
				router := newAdminRouter(&stubSurveyService{}, passwords, managerSession())

				req := httptest.NewRequest(http.MethodPut, "/b-passwords/B00010", strings.NewReader(`{"password":"4567"}`))
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				assert.Equal(t, tt.wantStatus, rec.Code)
			})
		}
	})
}
