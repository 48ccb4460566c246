package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/plantops/backend/internal/config"
	"github.com/plantops/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type fakeOperatorStore struct {
	operators map[string]*model.Operator
}

func (f *fakeOperatorStore) GetOperatorByLoginID(ctx context.Context, loginID string) (*model.Operator, error) {
	op, ok := f.operators[loginID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return op, nil
}

func (f *fakeOperatorStore) CreateOperator(ctx context.Context, loginID, name, passwordHash, plantID, role string) (*model.Operator, error) {
	op := &model.Operator{LoginID: loginID, Name: name, PasswordHash: passwordHash, PlantID: plantID, Role: role}
	f.operators[loginID] = op
	return op, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret-for-unit-tests",
		JWTAccessTTL:  "1h",
		AdminLoginID:  "admin",
		AdminPassword: "admin-password-1",
		AdminPlantID:  "default_plant",
	}
}

func seedOperator(t *testing.T, store *fakeOperatorStore, loginID, password, plantID, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	store.operators[loginID] = &model.Operator{
		LoginID:      loginID,
		Name:         "J. Rivera",
		PasswordHash: string(hash),
		PlantID:      plantID,
		Role:         role,
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTSecret = ""
	if _, err := NewAuthService(&fakeOperatorStore{}, cfg); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("err = %v, want ErrMisconfigured", err)
	}
}

func TestLoginAndParseRoundTrip(t *testing.T) {
	store := &fakeOperatorStore{operators: map[string]*model.Operator{}}
	seedOperator(t, store, "op-7", "sekrit-password", "plant-1", model.RoleOperator)
	s, err := NewAuthService(store, testAuthConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	token, expiresIn, err := s.Login(context.Background(), "op-7", "sekrit-password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || expiresIn != 3600 {
		t.Errorf("token=%q expires_in=%d, want non-empty token expiring in 3600s", token, expiresIn)
	}

	ident, err := s.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ident.OperatorID != "op-7" || ident.PlantID != "plant-1" || ident.Role != model.RoleOperator {
		t.Errorf("identity = %+v", ident)
	}
	if ident.IsAdmin() {
		t.Error("operator identity should not be admin")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := &fakeOperatorStore{operators: map[string]*model.Operator{}}
	seedOperator(t, store, "op-7", "sekrit-password", "plant-1", model.RoleOperator)
	s, _ := NewAuthService(store, testAuthConfig())

	if _, _, err := s.Login(context.Background(), "op-7", "wrong-password"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestLoginRejectsUnknownOperator(t *testing.T) {
	store := &fakeOperatorStore{operators: map[string]*model.Operator{}}
	s, _ := NewAuthService(store, testAuthConfig())

	if _, _, err := s.Login(context.Background(), "ghost", "some-password"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestLoginValidatesCredentials(t *testing.T) {
	s, _ := NewAuthService(&fakeOperatorStore{operators: map[string]*model.Operator{}}, testAuthConfig())

	if _, _, err := s.Login(context.Background(), "ab", "long-enough-pw"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short login id: err = %v, want ErrInvalidInput", err)
	}
	if _, _, err := s.Login(context.Background(), "op-7", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short password: err = %v, want ErrInvalidInput", err)
	}
}

func TestParseRejectsGarbageToken(t *testing.T) {
	s, _ := NewAuthService(&fakeOperatorStore{operators: map[string]*model.Operator{}}, testAuthConfig())

	for _, token := range []string{"", "not.a.jwt", "eyJhbGciOiJub25lIn0.e30."} {
		if _, err := s.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("token %q: err = %v, want ErrUnauthorized", token, err)
		}
	}
}

func TestParseRejectsTokenFromOtherSecret(t *testing.T) {
	store := &fakeOperatorStore{operators: map[string]*model.Operator{}}
	seedOperator(t, store, "op-7", "sekrit-password", "plant-1", model.RoleOperator)
	issuer, _ := NewAuthService(store, testAuthConfig())

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "a-completely-different-secret"
	verifier, _ := NewAuthService(store, otherCfg)

	token, _, err := issuer.Login(context.Background(), "op-7", "sekrit-password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := verifier.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized for foreign signature", err)
	}
}

func TestEnsureAdminSeedsOnce(t *testing.T) {
	store := &fakeOperatorStore{operators: map[string]*model.Operator{}}
	s, _ := NewAuthService(store, testAuthConfig())
	ctx := context.Background()

	if err := s.EnsureAdmin(ctx); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	admin, ok := store.operators["admin"]
	if !ok {
		t.Fatal("admin account should be created")
	}
	if admin.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", admin.Role)
	}
	if admin.PasswordHash == "admin-password-1" {
		t.Error("password must be stored hashed")
	}

	// 이미 있으면 덮어쓰지 않음
	admin.Name = "changed"
	if err := s.EnsureAdmin(ctx); err != nil {
		t.Fatalf("second ensure admin: %v", err)
	}
	if store.operators["admin"].Name != "changed" {
		t.Error("existing admin should be left untouched")
	}
}

func TestEnsureAdminRequiresPassword(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AdminPassword = ""
	s, _ := NewAuthService(&fakeOperatorStore{operators: map[string]*model.Operator{}}, cfg)

	if err := s.EnsureAdmin(context.Background()); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("err = %v, want ErrMisconfigured", err)
	}
}
