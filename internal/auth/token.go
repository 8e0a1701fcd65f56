package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shopeasy_storefront/internal/models"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// userNamespace sert à dériver des user_id stables à partir d'identités
// externes (provider OAuth, email de dev).
var userNamespace = uuid.MustParse("3f0b6a52-8a3c-4b8e-9b1d-5c7e2f4a9d10")

// UserIDFor renvoie l'identifiant interne d'une identité externe.
func UserIDFor(provider, subject string) string {
	return uuid.NewSHA1(userNamespace, []byte(provider+":"+strings.ToLower(subject))).String()
}

// Issuer signe et vérifie les jetons de session (HS256).
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

type claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (i *Issuer) Issue(user models.User) (string, error) {
	now := i.now()
	c := claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

// Parse vérifie la signature et l'expiration, et renvoie l'utilisateur.
func (i *Issuer) Parse(tokenString string) (*models.User, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || c.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &models.User{ID: c.UserID, Email: c.Email}, nil
}
