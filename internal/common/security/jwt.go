package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

var tokenExp time.Duration

func InitJWT(key []byte, exp time.Duration) {
	TokenAuth = jwtauth.New("HS256", key, nil)
	tokenExp = exp
}

// Claims is the decoded payload of a bearer token. A nil *Claims means
// the request carried no token (anonymous caller).
type Claims struct {
	UserID   string
	Username string
	Role     string
}

func GenerateToken(userID, username, role string) (string, error) {
	claims := jwt.MapClaims{
		"id":       userID,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(tokenExp).Unix(),
		"iat":      time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// ClaimsFromMap extracts the claim set from decoded token claims.
func ClaimsFromMap(raw map[string]interface{}) (*Claims, error) {
	id, ok := raw["id"].(string)
	if !ok {
		return nil, errors.New("id claim is missing or not a string")
	}
	username, ok := raw["username"].(string)
	if !ok {
		return nil, errors.New("username claim is missing or not a string")
	}
	role, ok := raw["role"].(string)
	if !ok {
		return nil, errors.New("role claim is missing or not a string")
	}
	return &Claims{UserID: id, Username: username, Role: role}, nil
}
