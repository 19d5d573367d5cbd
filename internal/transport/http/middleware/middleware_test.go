package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-restaurant-radar/internal/core/auth"
	resp "go-restaurant-radar/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(t *testing.T, r *gin.Engine, req *http.Request) resp.Resp {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status = %d", w.Code)
	}
	var out resp.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestAuthJWT(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "radar", TTL: time.Hour}
	userTok, _ := j.Issue("u1", "user")
	adminTok, _ := j.Issue("a1", "admin")

	r := gin.New()
	r.GET("/any", AuthJWT(j, ""), func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(gin.H{"uid": c.GetString(KeyUserID), "role": c.GetString(KeyRole)}))
	})
	r.GET("/admin", AuthJWT(j, "admin"), func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) })

	cases := []struct {
		path, header string
		want         int
	}{
		{"/any", "", resp.CodeUnauthorized},
		{"/any", "Token " + userTok, resp.CodeUnauthorized},
		{"/any", "Bearer nope", resp.CodeUnauthorized},
		{"/any", "Bearer " + userTok, resp.CodeOK},
		{"/admin", "Bearer " + userTok, resp.CodeForbidden},
		{"/admin", "Bearer " + adminTok, resp.CodeOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := serve(t, r, req); got.Code != tc.want {
			t.Errorf("%s with %q: code = %d, want %d", tc.path, tc.header, got.Code, tc.want)
		}
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimitPerIP(rate.Limit(0.001), 2), func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(t, r, req).Code
	}
	for i := 0; i < 2; i++ {
		if got := send("10.0.0.1"); got != resp.CodeOK {
			t.Fatalf("request %d = %d, want OK", i, got)
		}
	}
	if got := send("10.0.0.1"); got != resp.CodeTooMany {
		t.Fatalf("third request = %d, want %d", got, resp.CodeTooMany)
	}
	if got := send("10.0.0.2"); got != resp.CodeOK {
		t.Fatalf("other ip = %d, want OK", got)
	}
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/slow", Timeout(10*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	if got := serve(t, r, httptest.NewRequest(http.MethodGet, "/slow", nil)); got.Code != resp.CodeTimeout {
		t.Fatalf("code = %d, want %d", got.Code, resp.CodeTimeout)
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	if got := serve(t, r, httptest.NewRequest(http.MethodGet, "/boom", nil)); got.Code != resp.CodeServerError {
		t.Fatalf("code = %d, want %d", got.Code, resp.CodeServerError)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc" || w.Header().Get(KeyRequestID) != "abc" {
		t.Fatalf("propagated rid = %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("x", 200))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Body.String(); len(got) != 36 {
		t.Fatalf("oversized rid should be replaced with a uuid, got %q", got)
	}
}

func TestMaskQuery(t *testing.T) {
	got := maskQuery(map[string][]string{"Photo": {"https://x/y.jpg"}, "lat": {"1.5"}})
	if got["Photo"][0] != "****" || got["lat"][0] != "1.5" {
		t.Fatalf("maskQuery = %v", got)
	}
	if maskQuery(nil) != nil {
		t.Fatal("empty query should stay nil")
	}
}
