package server

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	commonhttp "github.com/sngm3741/karts-club-services/api/internal/interfaces/http/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return &Server{
		logger:        log.New(io.Discard, "", 0),
		sessionSecret: []byte("test-secret"),
		sessionIssuer: "karts-club-api",
		sessionTTL:    12 * time.Hour,
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	srv := newTestServer()

	token, expiresAt, err := srv.issueSessionToken("M00001", "M")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now().Add(11*time.Hour)))

	session, err := srv.parseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "M00001", session.Code)
	assert.Equal(t, "M", session.Role)
}

func TestParseSessionTokenRejections(t *testing.T) {
	srv := newTestServer()

	t.Run("壊れたトークン", func(t *testing.T) {
		_, err := srv.parseSessionToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("別の秘密鍵で署名されたトークン", func(t *testing.T) {
		other := newTestServer()
		other.sessionSecret = []byte("another-secret")
		token, _, err := other.issueSessionToken("M00001", "M")
		require.NoError(t, err)

		_, err = srv.parseSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("発行者が異なるトークン", func(t *testing.T) {
		other := newTestServer()
		other.sessionIssuer = "someone-else"
		token, _, err := other.issueSessionToken("M00001", "M")
		require.NoError(t, err)

		_, err = srv.parseSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("期限切れトークン", func(t *testing.T) {
		other := newTestServer()
		other.sessionTTL = -2 * time.Minute
		token, _, err := other.issueSessionToken("M00001", "M")
		require.NoError(t, err)

		_, err = srv.parseSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("主体とロールが食い違うトークン", func(t *testing.T) {
		token, _, err := srv.issueSessionToken("M00001", "E")
		require.NoError(t, err)

		_, err = srv.parseSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("コード形式が不正なトークン", func(t *testing.T) {
		token, _, err := srv.issueSessionToken("X12345", "X")
		require.NoError(t, err)

		_, err = srv.parseSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("none アルゴリズムのトークン", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject: "M00001",
			Issuer:  "karts-club-api",
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = srv.parseSessionToken(token)
		assert.Error(t, err)
	})
}

func TestSessionMiddleware(t *testing.T) {
	srv := newTestServer()

	var gotSession commonhttp.MemberSession
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := commonhttp.SessionFromContext(r.Context())
		require.True(t, ok)
		gotSession = session
		w.WriteHeader(http.StatusOK)
	})
	handler := srv.sessionMiddleware(next)

	t.Run("有効なトークンで主体が注入される", func(t *testing.T) {
		token, _, err := srv.issueSessionToken("B00010", "B")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/artworks/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "B00010", gotSession.Code)
		assert.Equal(t, "B", gotSession.Role)
	})

	t.Run("ヘッダーなしは 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/artworks/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Bearer 以外のスキームは 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/artworks/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	srv := newTestServer()
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := srv.requireAdmin(next)

	t.Run("E ロールは通過", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/surveys", nil)
		req = req.WithContext(commonhttp.ContextWithSession(req.Context(), commonhttp.MemberSession{Code: "E00002", Role: "E"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("M ロールは 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/surveys", nil)
		req = req.WithContext(commonhttp.ContextWithSession(req.Context(), commonhttp.MemberSession{Code: "M00001", Role: "M"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("セッションなしは 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/surveys", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestWithCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("許可リストのオリジンにヘッダーを付ける", func(t *testing.T) {
		handler := withCORS([]string{"https://karts.example.com"})(next)

		req := httptest.NewRequest(http.MethodGet, "/featured", nil)
		req.Header.Set("Origin", "https://karts.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://karts.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("許可されないオリジンにはヘッダーを付けない", func(t *testing.T) {
		handler := withCORS([]string{"https://karts.example.com"})(next)

		req := httptest.NewRequest(http.MethodGet, "/featured", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("ワイルドカード設定は全オリジンを許可", func(t *testing.T) {
		handler := withCORS([]string{"*"})(next)

		req := httptest.NewRequest(http.MethodGet, "/featured", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://anywhere.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("プリフライトは 204 で打ち切る", func(t *testing.T) {
		handler := withCORS([]string{"*"})(next)

		req := httptest.NewRequest(http.MethodOptions, "/featured", nil)
		req.Header.Set("Origin", "https://karts.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
