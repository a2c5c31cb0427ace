package echoapi

import (
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/profile"
)

const (
	jwtContextKey = "profileToken"
	jwtAudience   = "StudyMate"
)

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "profile not authenticated")

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Wallet   string `json:"wallet,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

type jwtAuth struct {
	config middleware.JWTConfig
}

func newJWTAuth(conf *core.Config) jwtAuth {
	return jwtAuth{
		config: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    jwtContextKey,
			Claims:        new(Claims),
		},
	}
}

// GetProfileClaims returns the claims of a token authenticating p.
func GetProfileClaims(conf *core.Config, p profile.Profile, isAdmin bool) *Claims {
	now := core.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   p.ID,
			Audience:  jwtAudience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: p.Username,
		Wallet:   p.WalletAddress,
		IsAdmin:  isAdmin,
	}
}

// GenerateToken generates a signed JWT token string representing the profile Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// PersonID, PersonName and PersonEmail make Claims loggable as a core.Person.
func (c Claims) PersonID() string    { return c.Subject }
func (c Claims) PersonName() string  { return c.Username }
func (c Claims) PersonEmail() string { return "" }

var _ core.Person = Claims{}
