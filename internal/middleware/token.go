package middleware

import (
	"StokAsistan/internal/entity"
	"StokAsistan/pkg/handlerUtil"
	jwtPkg "StokAsistan/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

const msgInvalidToken = "Unauthorized, access token invalid or expired"

// NewOptionalTokenMiddleware lets anonymous requests through. A bearer token,
// when present, must be valid; its user is stored under the "user" local.
func (m *middleware) NewOptionalTokenMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		return ctx.Next()
	}

	requestID := m.GetRequestID(ctx)
	errHandler := handlerUtil.New(m.log)

	userToken, err := jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Debug("Token verification failed")
		return errHandler.HandleUnauthorized(ctx, requestID, msgInvalidToken)
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return errHandler.HandleUnauthorized(ctx, requestID, msgInvalidToken)
	}

	id, _ := claims["id"].(string)
	if id == "" {
		m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      "Token claims are missing required fields",
		}).Debug("Token claims check")
		return errHandler.HandleUnauthorized(ctx, requestID, msgInvalidToken)
	}

	user := entity.UserLoginData{ID: id}
	user.Email, _ = claims["email"].(string)
	user.Username, _ = claims["username"].(string)
	ctx.Locals("user", user)

	return ctx.Next()
}
