package model

import "time"

// 운영자 역할
const (
	RoleOperator   = "operator"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// Identity - 인증 레이어가 공급하는 호출자 신원
// 코어 로직은 토큰 파싱을 모르며 이 구조체만 신뢰함
type Identity struct {
	OperatorID   string `json:"operator_id"`
	OperatorName string `json:"operator_name,omitempty"`
	PlantID      string `json:"plant_id"`
	Role         string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanApprove - 승인/내보내기 권한 (supervisor 이상)
func (i Identity) CanApprove() bool {
	return i.Role == RoleSupervisor || i.Role == RoleAdmin
}

// Scope - 조회에 적용할 plant 범위
// admin은 빈 문자열을 반환하여 전체 plant 조회로 승격됨
func (i Identity) Scope() string {
	if i.IsAdmin() {
		return ""
	}
	return i.PlantID
}

type Operator struct {
	ID           int64
	LoginID      string
	Name         string
	PasswordHash string
	PlantID      string
	Role         string
	CreatedAt    time.Time
}

type AuthRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
