package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	BrandID string `json:"brand_id"`
	jwt.RegisteredClaims
}
