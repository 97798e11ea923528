package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

// TokenTTL is the fixed lifetime of a session token.
const TokenTTL = 8 * time.Hour

var (
	ErrMissingAuthHeader   = apperrors.NewUnauthorizedError("Authorization required")
	ErrMalformedAuthHeader = apperrors.NewUnauthorizedError("Invalid authorization header")
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey string
	Issuer    string
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// JWTService issues and verifies HS256 session tokens.
type JWTService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTService(config JWTConfig) *JWTService {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &JWTService{
		secret: []byte(config.SecretKey),
		issuer: config.Issuer,
		now:    now,
	}
}

// Claims defines JWT token content
type Claims struct {
	PrincipalID int64  `json:"id"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the principal and returns it with its expiry.
// Times are cut to whole seconds, the resolution of JWT numeric dates, so the
// returned expiry is exactly the one inside the token.
func (s *JWTService) GenerateToken(principalID int64, role string) (string, time.Time, error) {
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(TokenTTL)

	claims := &Claims{
		PrincipalID: principalID,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(principalID, 10),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken verifies signature, algorithm and expiry and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	if !token.Valid || claims.PrincipalID <= 0 || claims.Role == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// ExtractBearerToken extracts the token from an Authorization header value of
// the form "Bearer <token>".
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMalformedAuthHeader
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedAuthHeader
	}

	return token, nil
}
