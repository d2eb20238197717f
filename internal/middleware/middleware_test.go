package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-pos/internal/auth"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(tokens *auth.TokenCodec, revoker auth.Revoker) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.NewNop()))
	r.GET("/private", AuthMiddleware(tokens, revoker), func(c *gin.Context) {
		claims, _ := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"userId": *GetUserID(c), "role": claims.Role})
	})
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httperr.HTTPError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body.Code
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenCodec([]byte("secret"), time.Hour, "test")
	r := newProtectedRouter(tokens, nil)

	valid, _, err := tokens.Issue(7, "owner")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	foreign, _, _ := auth.NewTokenCodec([]byte("other"), time.Hour, "test").Issue(7, "owner")
	expired, _, _ := tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue(7, "owner")

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing_authorization_header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid_authorization_header"},
		{"no token", "Bearer ", http.StatusUnauthorized, "invalid_authorization_header"},
		{"garbage", "Bearer not-a-jwt", http.StatusForbidden, "invalid_token"},
		{"foreign signature", "Bearer " + foreign, http.StatusForbidden, "invalid_token"},
		{"expired", "Bearer " + expired, http.StatusForbidden, "invalid_token"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doGet(r, tc.header)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
			if tc.code != "" {
				if got := errorCode(t, rec); got != tc.code {
					t.Errorf("error_code = %q, want %q", got, tc.code)
				}
			}
		})
	}
}

func TestAuthMiddlewareStoresClaims(t *testing.T) {
	tokens := auth.NewTokenCodec([]byte("secret"), time.Hour, "test")
	r := newProtectedRouter(tokens, nil)
	token, _, _ := tokens.Issue(42, "staff")

	rec := doGet(r, "Bearer "+token)
	var body struct {
		UserID uint   `json:"userId"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != 42 || body.Role != "staff" {
		t.Errorf("body = %+v", body)
	}
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	tokens := auth.NewTokenCodec([]byte("secret"), time.Hour, "test")
	revoker := auth.NewMemoryRevoker()
	r := newProtectedRouter(tokens, revoker)

	token, _, _ := tokens.Issue(1, "owner")
	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := revoker.Revoke(context.Background(), claims.ID, time.Hour); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	rec := doGet(r, "Bearer "+token)
	if rec.Code != http.StatusForbidden || errorCode(t, rec) != "token_revoked" {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get(RequestIDHeader) != "abc-123" || rec.Body.String() != "abc-123" {
		t.Errorf("request id not echoed: header=%q body=%q", rec.Header().Get(RequestIDHeader), rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(rec.Header().Get(RequestIDHeader)) != 36 {
		t.Errorf("generated id = %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://app.test"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://app.test")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://app.test" {
		t.Errorf("preflight: status=%d headers=%v", rec.Code, rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("disallowed origin must not be reflected")
	}
}

func TestCORSCredentials(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		want    string
	}{
		{"explicit list", []string{"http://app.test"}, "true"},
		{"empty list", nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORSMiddleware(tc.allowed))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", "http://app.test")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://app.test" {
				t.Errorf("Allow-Origin = %q", got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tc.want {
				t.Errorf("Allow-Credentials = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != "internal_error" {
		t.Errorf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}
