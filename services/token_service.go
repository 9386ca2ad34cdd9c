package services

import (
	"strconv"
	"time"

	"blog-cms/config"
	"blog-cms/models"

	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(identity Identity) (string, error)
	Verify(token string) (*Identity, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{
		secret: []byte(secret),
		ttl:    config.ClampTokenTTL(ttl),
		now:    time.Now,
	}
}

func (s *tokenService) Issue(identity Identity) (string, error) {
	now := s.now()

	claims := Claims{
		UserID:   identity.UserID,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(identity.UserID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	parser := jwt.Parser{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid token: " + err.Error()}
	}
	if !token.Valid {
		return nil, models.ErrorUnauthorized{Message: "token is not valid"}
	}

	// jwt/v4 validates time claims against time.Now, so re-check with our clock
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return nil, models.ErrorUnauthorized{Message: "token is expired"}
	}

	sub, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uint(sub) != claims.UserID {
		return nil, models.ErrorUnauthorized{Message: "token subject mismatch"}
	}

	return &Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
