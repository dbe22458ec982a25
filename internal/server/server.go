package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	adminapp "github.com/sngm3741/karts-club-services/api/internal/admin/application"
	"github.com/sngm3741/karts-club-services/api/internal/config"
	"github.com/sngm3741/karts-club-services/api/internal/infrastructure/cloudinary"
	mongodoc "github.com/sngm3741/karts-club-services/api/internal/infrastructure/mongo"
	adminhttp "github.com/sngm3741/karts-club-services/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/karts-club-services/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/karts-club-services/api/internal/interfaces/http/public"
	memberapp "github.com/sngm3741/karts-club-services/api/internal/member/application"
	memberdomain "github.com/sngm3741/karts-club-services/api/internal/member/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
// ドメインロジックはここに書かず、配線と横断的関心事（CORS・セッション検証）に限定する。
type Server struct {
	logger          *log.Logger
	client          *mongo.Client
	database        *mongo.Database
	pings           *mongo.Collection
	location        *time.Location
	addr            string
	allowedOrigins  []string
	sessionSecret   []byte
	sessionIssuer   string
	sessionTTL      time.Duration
	maxUploadBytes  int64
	authService     memberapp.AuthService
	artworkService  memberapp.ArtworkService
	featuredService memberapp.FeaturedService
	surveyService   adminapp.SurveyService
	passwordService adminapp.PasswordService
}

// New は Config と Mongo クライアントを受け取り、リポジトリとアプリケーションサービスを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
		cfg.ServerLog.Printf("タイムゾーン %s の読み込みに失敗: %v, JST を使用します", cfg.Timezone, err)
	}

	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		database:       client.Database(cfg.MongoDatabase),
		location:       loc,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		sessionSecret:  cfg.SessionSecret,
		sessionIssuer:  cfg.SessionIssuer,
		sessionTTL:     cfg.SessionTTL,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	srv.pings = srv.database.Collection(cfg.PingCollection)

	artworkRepo := mongodoc.NewArtworkRepository(srv.database, cfg.ArtworkCollection)
	surveyRepo := mongodoc.NewSurveyRepository(srv.database, cfg.SurveyCollection)
	bpasswordRepo := mongodoc.NewBPasswordRepository(srv.database, cfg.BPasswordCollection)
	featuredSlotRepo := mongodoc.NewFeaturedSlotRepository(srv.database, cfg.FeaturedCollection)

	uploader := cloudinary.New(cloudinary.Config{
		HTTPClient:   &http.Client{Timeout: cfg.CloudinaryTimeout},
		Logger:       cfg.ServerLog,
		BaseURL:      cfg.CloudinaryBaseURL,
		CloudName:    cfg.CloudinaryCloudName,
		UploadPreset: cfg.CloudinaryUploadPreset,
		Folder:       cfg.CloudinaryFolder,
	})

	srv.authService = memberapp.NewAuthService(bpasswordRepo, cfg.SharedLoginSecret, cfg.BPasswordPolicy)
	srv.artworkService = memberapp.NewArtworkService(artworkRepo, uploader)
	srv.featuredService = memberapp.NewFeaturedService(memberapp.FeaturedConfig{
		Mode:           cfg.FeaturedMode,
		Capacity:       cfg.FeaturedCapacity,
		RequireComment: cfg.FeatureRequireComment,
	}, artworkRepo, featuredSlotRepo)
	srv.surveyService = adminapp.NewSurveyService(surveyRepo)
	srv.passwordService = adminapp.NewPasswordService(bpasswordRepo, cfg.BPasswordManagerCode)

	return srv
}

// Run はHTTPサーバーを起動し、Public/Adminのルーティングやミドルウェアを組み立てる。
func (s *Server) Run() error {
	if err := s.ensureSamplePing(context.Background()); err != nil {
		s.logger.Printf("サンプル ping ドキュメントの用意に失敗しました: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Get("/ping", s.pingHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:         s.logger,
		Auth:           s.authService,
		Artworks:       s.artworkService,
		Featured:       s.featuredService,
		IssueToken:     s.issueSessionToken,
		MaxUploadBytes: s.maxUploadBytes,
	})
	publicHandler.Register(router, s.sessionMiddleware)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:          s.logger,
		SurveyService:   s.surveyService,
		PasswordService: s.passwordService,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.sessionMiddleware)
		r.Use(s.requireAdmin)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// issueSessionToken はログイン成功時にコードとロールを載せた HS256 トークンを発行する。
func (s *Server) issueSessionToken(code, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.sessionTTL)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   code,
			Issuer:    s.sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.sessionSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// sessionMiddleware は Authorization ヘッダーのセッショントークンを検証し、主体をコンテキストへ詰める。
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization ヘッダーがありません"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Bearer トークンを指定してください"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "セッショントークンが空です"})
			return
		}

		session, err := s.parseSessionToken(tokenString)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		ctx := commonhttp.ContextWithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseSessionToken は署名・発行者・有効期限と主体情報の整合性を検証する。
func (s *Server) parseSessionToken(tokenString string) (commonhttp.MemberSession, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.sessionSecret, nil
	}, jwt.WithLeeway(30*time.Second))

	if err != nil || !token.Valid {
		return commonhttp.MemberSession{}, errors.New("セッショントークンが無効です")
	}
	if claims.Issuer != s.sessionIssuer {
		return commonhttp.MemberSession{}, errors.New("セッショントークンが無効です")
	}

	code, err := memberdomain.ParseLoginCode(claims.Subject)
	if err != nil || string(code.Role()) != claims.Role {
		return commonhttp.MemberSession{}, errors.New("セッショントークンが無効です")
	}

	return commonhttp.MemberSession{Code: code.String(), Role: claims.Role}, nil
}

// requireAdmin は E ロール以外の管理系アクセスを拒否する。
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := commonhttp.SessionFromContext(r.Context())
		if !ok || !memberdomain.Role(session.Role).IsAdmin() {
			s.writeJSON(w, http.StatusForbidden, map[string]string{"error": "この操作を行う権限がありません。"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type pingDocument struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// pingHandler は `pings` コレクションから最新レコードを返す検証用エンドポイント。
func (s *Server) pingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		var doc pingDocument
		err := s.pings.FindOne(ctx, bson.D{}, opts).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.writeJSON(w, http.StatusNotFound, map[string]string{
				"status":  "not_found",
				"message": "ping コレクションにドキュメントが存在しません",
			})
			return
		}
		if err != nil {
			s.logger.Printf("ping コレクションのドキュメント取得に失敗: %v", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "ping コレクションのドキュメント取得に失敗しました",
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]any{
			"message":   doc.Message,
			"createdAt": doc.CreatedAt.In(s.location),
			"id":        doc.ID.Hex(),
		})
	}
}

// ensureSamplePing は pings コレクションに最低1件のドキュメントがある状態を保証する。
func (s *Server) ensureSamplePing(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := s.pings.CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.pings.InsertOne(ctx, bson.M{
		"message":   "pong",
		"createdAt": time.Now().In(s.location),
	})
	return err
}

// writeJSON は JSON レスポンスの共通書き込み処理。
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断し、プロセス終了時のリソースリークを防ぐ。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}
