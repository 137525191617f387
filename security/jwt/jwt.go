// Package jwt signs and verifies the HS256 access tokens handed out at
// signup and login.
package jwt

import (
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
)

// TokenError represents JWT token related errors
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	DefaultAccessTokenExpire = time.Hour * 24

	ErrNeedTokenProvider = TokenError("cannot sign token without token provider")
	ErrInvalidToken      = TokenError("invalid token")
	ErrTokenParsing      = TokenError("token parsing error")
)

// Payload is the identity carried in the "payload" claim.
type Payload struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	UserName string `json:"user_name"`
}

func (p Payload) claim() map[string]any {
	return map[string]any{
		"user_id":   p.UserID,
		"email":     p.Email,
		"user_name": p.UserName,
	}
}

// Token represents the token body
type Token struct {
	JTI     string
	Payload Payload
	Subject string
	Expire  time.Duration
}

// TokenManager handles JWT token operations
type TokenManager struct {
	key    string
	expire time.Duration
}

// NewTokenManager creates a new TokenManager instance. A zero expire uses
// DefaultAccessTokenExpire.
func NewTokenManager(key string, expire ...time.Duration) *TokenManager {
	tm := &TokenManager{key: key, expire: DefaultAccessTokenExpire}
	if len(expire) > 0 && expire[0] > 0 {
		tm.expire = expire[0]
	}
	return tm
}

// validateKey validates the token key
func (jtm *TokenManager) validateKey() error {
	if jtm.key == "" {
		return ErrNeedTokenProvider
	}
	return nil
}

// generateToken generates a JWT token
func (jtm *TokenManager) generateToken(token *Token) (string, error) {
	if err := jtm.validateKey(); err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwtstd.MapClaims{
		"jti":     token.JTI,
		"sub":     token.Subject,
		"payload": token.Payload.claim(),
		"iat":     now.Unix(),
		"exp":     now.Add(token.Expire).Unix(),
	}

	t := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims)
	return t.SignedString([]byte(jtm.key))
}

// GenerateAccessToken issues a token for the user in payload. The subject
// is the user id.
func (jtm *TokenManager) GenerateAccessToken(jti string, payload Payload) (string, error) {
	return jtm.generateToken(&Token{
		JTI:     jti,
		Payload: payload,
		Subject: payload.UserID,
		Expire:  jtm.expire,
	})
}

// ValidateToken parses and verifies a token. Only HS256 is accepted.
func (jtm *TokenManager) ValidateToken(tokenString string) (*jwtstd.Token, error) {
	if err := jtm.validateKey(); err != nil {
		return nil, err
	}

	return jwtstd.Parse(tokenString, func(token *jwtstd.Token) (any, error) {
		return []byte(jtm.key), nil
	}, jwtstd.WithValidMethods([]string{jwtstd.SigningMethodHS256.Alg()}), jwtstd.WithExpirationRequired())
}

// DecodeToken decodes a JWT token into its claims
func (jtm *TokenManager) DecodeToken(tokenString string) (map[string]any, error) {
	token, err := jtm.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return token.Claims.(jwtstd.MapClaims), nil
}

// GetTokenExpiryTime extracts the expiration time from a token
func (jtm *TokenManager) GetTokenExpiryTime(tokenString string) (time.Time, error) {
	claims, err := jtm.DecodeToken(tokenString)
	if err != nil {
		return time.Time{}, err
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, ErrTokenParsing
	}

	return time.Unix(int64(exp), 0), nil
}

// getPayloadFromClaims extracts the payload from token claims
func getPayloadFromClaims(claims map[string]any) (map[string]any, bool) {
	payloadAny, ok := claims["payload"]
	if !ok {
		return nil, false
	}
	payload, ok := payloadAny.(map[string]any)
	return payload, ok
}

// GetPayloadFromToken reads the identity payload from decoded claims.
func GetPayloadFromToken(claims map[string]any) Payload {
	var p Payload
	payload, ok := getPayloadFromClaims(claims)
	if !ok {
		return p
	}
	p.UserID, _ = payload["user_id"].(string)
	p.Email, _ = payload["email"].(string)
	p.UserName, _ = payload["user_name"].(string)
	return p
}

// GetUserIDFromToken gets the user ID from the token, falling back to the subject.
func GetUserIDFromToken(claims map[string]any) string {
	if id := GetPayloadFromToken(claims).UserID; id != "" {
		return id
	}
	sub, _ := claims["sub"].(string)
	return sub
}
