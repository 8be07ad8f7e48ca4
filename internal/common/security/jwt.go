package security

import (
	"errors"
	"time"

	"poi_network/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

func GenerateToken(userID string, isValidator bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":      userID,
		"is_validator": isValidator,
		"exp":          time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":          time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetIsValidatorFromClaims(claims jwt.MapClaims) (bool, error) {
	isValidator, ok := claims["is_validator"].(bool)
	if !ok {
		return false, errors.New("is_validator claim is missing or not a bool")
	}
	return isValidator, nil
}
