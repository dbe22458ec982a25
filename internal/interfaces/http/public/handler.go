package public

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	memberapp "github.com/sngm3741/karts-club-services/api/internal/member/application"
)

// TokenIssuer はログイン成功時にセッショントークンを発行する。
type TokenIssuer func(code, role string) (token string, expiresAt time.Time, err error)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger         *log.Logger
	auth           memberapp.AuthService
	artworks       memberapp.ArtworkService
	featured       memberapp.FeaturedService
	issueToken     TokenIssuer
	maxUploadBytes int64
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *log.Logger
	Auth           memberapp.AuthService
	Artworks       memberapp.ArtworkService
	Featured       memberapp.FeaturedService
	IssueToken     TokenIssuer
	MaxUploadBytes int64
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:         cfg.Logger,
		auth:           cfg.Auth,
		artworks:       cfg.Artworks,
		featured:       cfg.Featured,
		issueToken:     cfg.IssueToken,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Register mounts all public routes onto the router.
// ログインと「みんなの作品」は未認証、作品ページはセッション必須。
func (h *Handler) Register(r chi.Router, sessionMiddleware func(http.Handler) http.Handler) {
	r.Post("/auth/login", h.loginHandler())
	r.Get("/featured", h.featuredListHandler())

	r.With(sessionMiddleware).Get("/auth/verify", h.authVerifyHandler())
	r.With(sessionMiddleware).Get("/artworks/me", h.artworkGetHandler())
	r.With(sessionMiddleware).Put("/artworks/me", h.artworkSaveHandler())
	r.With(sessionMiddleware).Post("/artworks/me/image", h.artworkImageUploadHandler())
	r.With(sessionMiddleware).Delete("/artworks/me/image", h.artworkImageDeleteHandler())
	r.With(sessionMiddleware).Post("/artworks/me/feature", h.artworkFeatureHandler())
}
