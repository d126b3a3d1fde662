package jwttoken

import (
	"datacatalog/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *Claims) *middleware.AdminClaims {
	return &middleware.AdminClaims{
		AdminID:    claims.AdminID,
		AdminName:  claims.AdminName,
		AdminEmail: claims.AdminEmail,
	}
}

// JWTServiceAdapter bridges JWTService to the middleware token contract so
// the middleware package stays free of JWT library details.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.AdminClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
