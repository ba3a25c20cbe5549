package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shreddi/WallStreetRivals/internal/domain/player"
)

const (
	tokenUseAccess        = "access"
	tokenUseRefresh       = "refresh"
	tokenUsePasswordReset = "password_reset"

	defaultAccessTokenTTL        = 15 * time.Minute
	defaultRefreshTokenTTL       = 7 * 24 * time.Hour
	defaultPasswordResetTokenTTL = time.Hour
)

var errTokenInvalid = errors.New("token is invalid")

type sessionClaims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenManagerConfig tunes signing and lifetimes. Zero TTLs fall back to
// defaults.
type TokenManagerConfig struct {
	Secret           string
	Issuer           string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	PasswordResetTTL time.Duration
}

// TokenManager issues and verifies HS256 session tokens. The token_use claim
// keeps access, refresh, and password-reset tokens from standing in for each
// other.
type TokenManager struct {
	secret           []byte
	issuer           string
	accessTTL        time.Duration
	refreshTTL       time.Duration
	passwordResetTTL time.Duration
	now              func() time.Time
}

func NewTokenManager(cfg TokenManagerConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTokenTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTokenTTL
	}
	if cfg.PasswordResetTTL <= 0 {
		cfg.PasswordResetTTL = defaultPasswordResetTokenTTL
	}

	return &TokenManager{
		secret:           []byte(cfg.Secret),
		issuer:           cfg.Issuer,
		accessTTL:        cfg.AccessTTL,
		refreshTTL:       cfg.RefreshTTL,
		passwordResetTTL: cfg.PasswordResetTTL,
		now:              time.Now,
	}, nil
}

func (m *TokenManager) IssueAccessToken(p player.Principal) (string, time.Time, error) {
	return m.issue(p, tokenUseAccess, m.accessTTL)
}

func (m *TokenManager) IssueRefreshToken(p player.Principal) (string, time.Time, error) {
	return m.issue(p, tokenUseRefresh, m.refreshTTL)
}

func (m *TokenManager) IssuePasswordResetToken(playerID string) (string, error) {
	token, _, err := m.issue(player.Principal{PlayerID: playerID}, tokenUsePasswordReset, m.passwordResetTTL)
	return token, err
}

// VerifyAccessToken checks signature, expiry, and token use, returning the
// authenticated principal.
func (m *TokenManager) VerifyAccessToken(_ context.Context, token string) (player.Principal, error) {
	claims, err := m.parse(token, tokenUseAccess)
	if err != nil {
		return player.Principal{}, err
	}

	return player.Principal{
		PlayerID: claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

// VerifyRefreshToken returns the player id the refresh token was issued for.
func (m *TokenManager) VerifyRefreshToken(token string) (string, error) {
	claims, err := m.parse(token, tokenUseRefresh)
	if err != nil {
		return "", err
	}

	return claims.Subject, nil
}

func (m *TokenManager) VerifyPasswordResetToken(playerID, token string) error {
	claims, err := m.parse(token, tokenUsePasswordReset)
	if err != nil {
		return err
	}
	if claims.Subject != playerID {
		return errTokenInvalid
	}

	return nil
}

func (m *TokenManager) issue(p player.Principal, tokenUse string, ttl time.Duration) (string, time.Time, error) {
	now := m.now().UTC()
	expiresAt := now.Add(ttl)

	claims := sessionClaims{
		Username: p.Username,
		Email:    p.Email,
		TokenUse: tokenUse,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   p.PlayerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenUse, err)
	}

	return signed, expiresAt, nil
}

func (m *TokenManager) parse(token, wantUse string) (sessionClaims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return m.now().UTC() }),
	)
	if err != nil || !parsed.Valid {
		return sessionClaims{}, errTokenInvalid
	}
	if claims.TokenUse != wantUse {
		return sessionClaims{}, errTokenInvalid
	}

	return claims, nil
}
