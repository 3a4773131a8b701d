package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Identificadores de perfil emitidos pelo serviço de autenticação
const (
	RoleIDAdmin            = 1
	RoleIDOperator         = 2
	RoleIDDeliveryPipeline = 3
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// Actor é a identidade que invoca um comando, resolvida a partir do token
type Actor struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type Claims struct {
	UserID     string
	UserName   string
	UserEmail  string
	UserRoleID int
	jwt.RegisteredClaims
}

// Actor converte as claims do token no ator usado pelas regras de autorização
func (c *Claims) Actor() Actor {
	if c == nil {
		return Actor{}
	}

	role := RoleOperator
	if c.UserRoleID == RoleIDAdmin {
		role = RoleAdmin
	}

	return Actor{
		UserID: c.UserID,
		Role:   role,
	}
}
