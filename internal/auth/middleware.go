package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is where the verified *jwt.Token is stored on the echo context.
const contextKey = "user"

// Middleware rejects requests without a valid "Authorization: Bearer" token.
func Middleware(issuer *Issuer) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  contextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return issuer.Parse(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.Debug().Err(err).Str("path", c.Path()).Msg("rejected request without valid token")
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="todo-api"`)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing bearer token")
		},
	})
}

// RequestSubject returns the "sub" claim of the token verified for c, or ""
// when the route is not behind Middleware.
func RequestSubject(c echo.Context) string {
	token, _ := c.Get(contextKey).(*jwt.Token)
	return subject(token)
}
