package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// BPasswordPolicy は B コードのログイン時にどのパスワード検証を行うかを表す。
type BPasswordPolicy string

const (
	// BPasswordNone はパスワードを要求しない運用。
	BPasswordNone BPasswordPolicy = "none"
	// BPasswordAnyFourDigits は 4 桁の数字であれば受け入れる運用。
	BPasswordAnyFourDigits BPasswordPolicy = "any4"
	// BPasswordRegistered は b_passwords コレクションに登録済みのコード別パスワードを照合する運用。
	BPasswordRegistered BPasswordPolicy = "registered"
)

// FeaturedMode は「みんなの作品」の管理方式を表す。
type FeaturedMode string

const (
	// FeaturedByTimestamp は featuredAt の新しい順に上位 N 件を表示する方式。
	FeaturedByTimestamp FeaturedMode = "timestamp"
	// FeaturedBySlots は固定スロットのドキュメントを入れ替える方式。
	FeaturedBySlots FeaturedMode = "slots"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                string
	MongoURI            string
	MongoDatabase       string
	PingCollection      string
	ArtworkCollection   string
	SurveyCollection    string
	BPasswordCollection string
	FeaturedCollection  string
	Timeout             time.Duration
	Timezone            string
	ServerLog           *log.Logger
	AllowedOrigins      []string

	SessionSecret []byte
	SessionIssuer string
	SessionTTL    time.Duration

	SharedLoginSecret    string
	BPasswordPolicy      BPasswordPolicy
	BPasswordManagerCode string

	FeaturedMode          FeaturedMode
	FeaturedCapacity      int
	FeatureRequireComment bool

	CloudinaryBaseURL      string
	CloudinaryCloudName    string
	CloudinaryUploadPreset string
	CloudinaryFolder       string
	CloudinaryTimeout      time.Duration

	MaxUploadBytes int64
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	sessionSecret := strings.TrimSpace(os.Getenv("AUTH_SESSION_JWT_SECRET"))
	if sessionSecret == "" {
		log.Fatal("AUTH_SESSION_JWT_SECRET must be configured")
	}

	sessionTTL := 12 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TOKEN_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			sessionTTL = parsed
		}
	}

	cloudinaryTimeout := 15 * time.Second
	if raw := strings.TrimSpace(os.Getenv("CLOUDINARY_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			cloudinaryTimeout = parsed
		}
	}

	policy := parseBPasswordPolicy(os.Getenv("B_PASSWORD_POLICY"))
	mode := parseFeaturedMode(os.Getenv("FEATURED_MODE"))

	capacity := defaultFeaturedCapacity(mode)
	if raw := strings.TrimSpace(os.Getenv("FEATURED_CAPACITY")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			capacity = parsed
		}
	}

	requireComment := true
	if raw := strings.TrimSpace(os.Getenv("FEATURE_REQUIRE_COMMENT")); raw != "" {
		requireComment = !strings.EqualFold(raw, "false")
	}

	maxUploadBytes := int64(10 << 20)
	if raw := strings.TrimSpace(os.Getenv("MAX_UPLOAD_BYTES")); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			maxUploadBytes = parsed
		}
	}

	cfg := Config{
		Addr:                envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:            envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:       envOrDefault("MONGO_DB", "karts-club"),
		PingCollection:      envOrDefault("PING_COLLECTION", "pings"),
		ArtworkCollection:   envOrDefault("ARTWORK_COLLECTION", "artworks"),
		SurveyCollection:    envOrDefault("SURVEY_COLLECTION", "surveys"),
		BPasswordCollection: envOrDefault("B_PASSWORD_COLLECTION", "b_passwords"),
		FeaturedCollection:  envOrDefault("FEATURED_COLLECTION", "featured"),
		Timeout:             timeout,
		Timezone:            envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:           log.New(os.Stdout, "[karts-club-api] ", log.LstdFlags|log.Lshortfile),
		AllowedOrigins:      parseList("API_ALLOWED_ORIGINS", []string{"*"}),

		SessionSecret: []byte(sessionSecret),
		SessionIssuer: envOrDefault("AUTH_SESSION_JWT_ISSUER", "karts-club-api"),
		SessionTTL:    sessionTTL,

		SharedLoginSecret:    envOrDefault("SHARED_LOGIN_SECRET", "1221"),
		BPasswordPolicy:      policy,
		BPasswordManagerCode: envOrDefault("B_PASSWORD_MANAGER_CODE", "E00002"),

		FeaturedMode:          mode,
		FeaturedCapacity:      capacity,
		FeatureRequireComment: requireComment,

		CloudinaryBaseURL:      envOrDefault("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),
		CloudinaryCloudName:    envOrDefault("CLOUDINARY_CLOUD_NAME", "drfgen4gm"),
		CloudinaryUploadPreset: envOrDefault("CLOUDINARY_UPLOAD_PRESET", "karts_unsigned"),
		CloudinaryFolder:       envOrDefault("CLOUDINARY_FOLDER", "karts-artworks"),
		CloudinaryTimeout:      cloudinaryTimeout,

		MaxUploadBytes: maxUploadBytes,
	}

	cfg.ServerLog.Printf("loaded config: bPasswordPolicy=%q featuredMode=%q capacity=%d requireComment=%t", policy, mode, capacity, requireComment)

	return cfg
}

// parseBPasswordPolicy は環境変数の値を既知のポリシーへ正規化する。未知の値は registered 扱い。
func parseBPasswordPolicy(raw string) BPasswordPolicy {
	switch BPasswordPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case BPasswordNone:
		return BPasswordNone
	case BPasswordAnyFourDigits:
		return BPasswordAnyFourDigits
	default:
		return BPasswordRegistered
	}
}

// parseFeaturedMode は環境変数の値を既知の方式へ正規化する。未知の値は timestamp 扱い。
func parseFeaturedMode(raw string) FeaturedMode {
	if FeaturedMode(strings.ToLower(strings.TrimSpace(raw))) == FeaturedBySlots {
		return FeaturedBySlots
	}
	return FeaturedByTimestamp
}

func defaultFeaturedCapacity(mode FeaturedMode) int {
	if mode == FeaturedBySlots {
		return 2
	}
	return 8
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
