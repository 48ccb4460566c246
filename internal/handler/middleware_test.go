package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/plantops/backend/internal/config"
	"github.com/plantops/backend/internal/model"
	"github.com/plantops/backend/internal/ratelimit"
	"github.com/plantops/backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type memOperatorStore struct {
	operators map[string]*model.Operator
}

func (m *memOperatorStore) GetOperatorByLoginID(ctx context.Context, loginID string) (*model.Operator, error) {
	op, ok := m.operators[loginID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return op, nil
}

func (m *memOperatorStore) CreateOperator(ctx context.Context, loginID, name, passwordHash, plantID, role string) (*model.Operator, error) {
	op := &model.Operator{LoginID: loginID, Name: name, PasswordHash: passwordHash, PlantID: plantID, Role: role}
	m.operators[loginID] = op
	return op, nil
}

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	store := &memOperatorStore{operators: map[string]*model.Operator{
		"op-7": {LoginID: "op-7", Name: "J. Rivera", PasswordHash: string(hash), PlantID: "plant-1", Role: model.RoleOperator},
	}}
	svc, err := service.NewAuthService(store, config.AuthConfig{
		JWTSecret:    "test-secret-for-unit-tests",
		JWTAccessTTL: "1h",
	})
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func loginToken(t *testing.T, svc *service.AuthService) string {
	t.Helper()
	token, _, err := svc.Login(context.Background(), "op-7", "sekrit-password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return token
}

func protectedRouter(svc *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(svc), func(c *gin.Context) {
		ident := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"operator_id": ident.OperatorID, "plant_id": ident.PlantID})
	})
	return router
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	svc := newTestAuthService(t)
	router := protectedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+loginToken(t, svc))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	svc := newTestAuthService(t)
	router := protectedRouter(svc)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
		})
	}
}

func corsRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware(origins))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func TestCORSMiddlewareAllowedOrigin(t *testing.T) {
	router := corsRouter([]string{"https://ops.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ops.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the request origin echoed", got)
	}
}

func TestCORSMiddlewareUnknownOrigin(t *testing.T) {
	router := corsRouter([]string{"https://ops.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want no header for an unknown origin", got)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	router := corsRouter([]string{"https://ops.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 for preflight", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected Access-Control-Allow-Methods on preflight response")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.New(time.Minute, 2, 100)

	router := gin.New()
	router.POST("/write", RateLimitMiddleware(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after limit", w.Code)
	}
}
