package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/plantops/backend/internal/config"
	"github.com/plantops/backend/internal/db"
	"github.com/plantops/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	minLoginIDLength  = 3
	minPasswordLength = 8
)

// operatorStore - 운영자 계정 저장소
type operatorStore interface {
	GetOperatorByLoginID(ctx context.Context, loginID string) (*model.Operator, error)
	CreateOperator(ctx context.Context, loginID, name, passwordHash, plantID, role string) (*model.Operator, error)
}

type AuthService struct {
	store     operatorStore
	jwtSecret []byte
	accessTTL time.Duration
	adminCfg  config.AuthConfig
}

type authClaims struct {
	OperatorName string `json:"operator_name,omitempty"`
	PlantID      string `json:"plant_id"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(store operatorStore, cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	accessTTL, err := time.ParseDuration(cfg.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	return &AuthService{
		store:     store,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: accessTTL,
		adminCfg:  cfg,
	}, nil
}

// EnsureAdmin - 설정된 admin 계정이 없으면 생성 (프로세스 시작 시 1회)
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	loginID := s.adminCfg.AdminLoginID
	password := s.adminCfg.AdminPassword
	if strings.TrimSpace(loginID) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: ADMIN_LOGIN_ID/ADMIN_PASSWORD are required", ErrMisconfigured)
	}

	_, err := s.store.GetOperatorByLoginID(ctx, loginID)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	if err := validateCredentials(loginID, password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.store.CreateOperator(ctx, loginID, "Administrator", string(hash), s.adminCfg.AdminPlantID, model.RoleAdmin)
	return err
}

func (s *AuthService) Login(ctx context.Context, loginID, password string) (string, int64, error) {
	if err := validateCredentials(loginID, password); err != nil {
		return "", 0, err
	}

	op, err := s.store.GetOperatorByLoginID(ctx, loginID)
	if err != nil {
		if db.IsNoRows(err) {
			return "", 0, ErrUnauthorized
		}
		return "", 0, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", 0, ErrUnauthorized
	}

	return s.issueAccessToken(op)
}

func (s *AuthService) issueAccessToken(op *model.Operator) (string, int64, error) {
	now := time.Now()
	claims := authClaims{
		OperatorName: op.Name,
		PlantID:      op.PlantID,
		Role:         op.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.LoginID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}
	return token, int64(s.accessTTL.Seconds()), nil
}

// ParseAccessToken - 토큰을 호출자 신원으로 변환. 코어 로직은 이 Identity만 신뢰함
func (s *AuthService) ParseAccessToken(token string) (*model.Identity, error) {
	var claims authClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized
	}

	switch claims.Role {
	case model.RoleOperator, model.RoleSupervisor, model.RoleAdmin:
	default:
		return nil, ErrUnauthorized
	}

	return &model.Identity{
		OperatorID:   claims.Subject,
		OperatorName: claims.OperatorName,
		PlantID:      claims.PlantID,
		Role:         claims.Role,
	}, nil
}

func validateCredentials(loginID, password string) error {
	if len(strings.TrimSpace(loginID)) < minLoginIDLength {
		return fmt.Errorf("%w: login id too short", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password too short", ErrInvalidInput)
	}
	return nil
}
