package authjwt

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"

	"github.com/qolzam/bookcatalog/internal/pkg/log"
	"github.com/qolzam/bookcatalog/internal/types"
)

// Config defines the config for the JWT middleware.
type Config struct {
	// The EC public key for validating ES256 tokens.
	PublicKey string
	// Issuer and Audience are checked when non-empty.
	Issuer   string
	Audience string
	// The claim key where the UserContext is stored.
	ClaimKey string
	// The fiber locals key to store the UserContext.
	UserCtxName string
}

// Validator verifies tokens against a parsed public key.
type Validator struct {
	key      *ecdsa.PublicKey
	parser   *jwt.Parser
	claimKey string
}

// NewValidator parses the PEM public key once.
func NewValidator(cfg Config) (*Validator, error) {
	key, err := jwt.ParseECPublicKeyFromPEM([]byte(cfg.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse EC public key: %w", err)
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claimKey := cfg.ClaimKey
	if claimKey == "" {
		claimKey = types.ClaimKey
	}

	return &Validator{key: key, parser: jwt.NewParser(opts...), claimKey: claimKey}, nil
}

// Validate returns the UserContext carried by a valid token. It never
// writes to a response.
func (v *Validator) Validate(tokenString string) (types.UserContext, error) {
	var userCtx types.UserContext

	token, err := v.parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return userCtx, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return userCtx, errors.New("invalid token")
	}

	claimData, ok := claims[v.claimKey].(map[string]interface{})
	if !ok {
		return userCtx, errors.New("invalid token claim format")
	}

	return mapToUserContext(claimData)
}

// New creates a new middleware handler. It panics when the public key
// cannot be parsed.
func New(cfg Config) fiber.Handler {
	validator, err := NewValidator(cfg)
	if err != nil {
		panic(err.Error())
	}

	userKey := cfg.UserCtxName
	if userKey == "" {
		userKey = types.UserCtxName
	}

	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get(types.HeaderAuthorization))
		if tokenString == "" {
			tokenString = c.Cookies("access_token")
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Missing or invalid JWT",
			})
		}

		userCtx, err := validator.Validate(tokenString)
		if err != nil {
			log.WarnWithContext(c.UserContext(), "Rejected token: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid token",
				"details": err.Error(),
			})
		}

		c.Locals(userKey, userCtx)
		return c.Next()
	}
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, types.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, types.BearerPrefix))
}

// mapToUserContext converts claim data to UserContext
func mapToUserContext(claimData map[string]interface{}) (types.UserContext, error) {
	var userCtx types.UserContext

	userIDStr, ok := claimData[types.HeaderUID].(string)
	if !ok {
		return userCtx, errors.New("missing or invalid uid in claim")
	}
	userID, err := uuid.FromString(userIDStr)
	if err != nil {
		return userCtx, fmt.Errorf("invalid user ID: %v", err)
	}
	userCtx.UserID = userID

	username, _ := claimData["username"].(string)
	if username == "" {
		return userCtx, errors.New("missing username in claim")
	}
	userCtx.Username = username

	if role, ok := claimData["role"].(string); ok {
		userCtx.Role = role
	}

	return userCtx, nil
}
