package admin

import (
	"log"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/karts-club-services/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger          *log.Logger
	surveyService   adminapp.SurveyService
	passwordService adminapp.PasswordService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger          *log.Logger
	SurveyService   adminapp.SurveyService
	PasswordService adminapp.PasswordService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:          cfg.Logger,
		surveyService:   cfg.SurveyService,
		passwordService: cfg.PasswordService,
	}
}

// Register mounts admin routes onto router. セッションと E ロールの確認はサーバー側ミドルウェアが行う。
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys", h.surveyReportHandler())
	r.Post("/surveys", h.surveyCreateHandler())
	r.Delete("/surveys", h.surveyResetHandler())
	r.Put("/b-passwords/{code}", h.bPasswordSetHandler())
}
