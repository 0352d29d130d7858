package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

const ContextIdentity = "context_identity"
const ContextPremium = "context_premium"

type UserClaim struct {
	Premium bool `json:"premium"`
	jwt.RegisteredClaims
}

func CreateJwtSignedString(u UserClaim) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, u)
	return token.SignedString(environment_variables.EnvironmentVariables.JWT_SECRET)
}
