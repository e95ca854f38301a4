package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"eventdesk/internal/dto"
)

func signed(t *testing.T, secret string, claims jwt.Claims, method jwt.SigningMethod) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + s
}

func TestAuthenticatorUserID(t *testing.T) {
	a, err := NewAuthenticator("s3cret", "idp")
	if err != nil {
		t.Fatal(err)
	}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", signed(t, "s3cret", jwt.RegisteredClaims{Subject: "u1", Issuer: "idp", ExpiresAt: future}, jwt.SigningMethodHS256), "u1", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"wrong secret", signed(t, "other", jwt.RegisteredClaims{Subject: "u1", Issuer: "idp"}, jwt.SigningMethodHS256), "", true},
		{"expired", signed(t, "s3cret", jwt.RegisteredClaims{Subject: "u1", Issuer: "idp", ExpiresAt: past}, jwt.SigningMethodHS256), "", true},
		{"wrong issuer", signed(t, "s3cret", jwt.RegisteredClaims{Subject: "u1", Issuer: "evil"}, jwt.SigningMethodHS256), "", true},
		{"no subject", signed(t, "s3cret", jwt.RegisteredClaims{Issuer: "idp"}, jwt.SigningMethodHS256), "", true},
		{"other algorithm", signed(t, "s3cret", jwt.RegisteredClaims{Subject: "u1", Issuer: "idp"}, jwt.SigningMethodHS512), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.UserID(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewAuthenticatorRequiresSecret(t *testing.T) {
	if _, err := NewAuthenticator("", ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestRequiredAndOptional(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, _ := NewAuthenticator("s3cret", "")
	r := gin.New()
	echo := func(c *gin.Context) { c.String(http.StatusOK, c.GetString(dto.UserIDKey)) }
	r.GET("/private", a.Required(), echo)
	r.GET("/public", a.Optional(), echo)

	token := signed(t, "s3cret", jwt.RegisteredClaims{Subject: "u9"}, jwt.SigningMethodHS256)
	tests := []struct {
		path, header string
		code         int
		body         string
	}{
		{"/private", token, http.StatusOK, "u9"},
		{"/private", "", http.StatusUnauthorized, ""},
		{"/public", "", http.StatusOK, ""},
		{"/public", token, http.StatusOK, "u9"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.code {
			t.Fatalf("%s: expected %d, got %d", tt.path, tt.code, w.Code)
		}
		if tt.code == http.StatusOK && w.Body.String() != tt.body {
			t.Fatalf("%s: expected body %q, got %q", tt.path, tt.body, w.Body.String())
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	now := time.Now()
	if !rl.allow("1.1.1.1", now) || !rl.allow("1.1.1.1", now) {
		t.Fatal("expected burst of 2 to pass")
	}
	if rl.allow("1.1.1.1", now) {
		t.Fatal("expected third request to be limited")
	}
	if !rl.allow("2.2.2.2", now) {
		t.Fatal("expected other client to have its own bucket")
	}
	if !rl.allow("1.1.1.1", now.Add(time.Second)) {
		t.Fatal("expected a token after one second")
	}

	rl.visitors["2.2.2.2"].lastSeen = now.Add(-time.Hour)
	rl.Cleanup(time.Minute)
	if _, ok := rl.visitors["2.2.2.2"]; ok {
		t.Fatal("expected idle client to be forgotten")
	}
}
