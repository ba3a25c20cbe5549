package auth

import (
	"testing"
	"time"

	"github.com/shreddi/WallStreetRivals/internal/domain/player"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()

	m, err := NewTokenManager(TokenManagerConfig{
		Secret: "test-secret",
		Issuer: "wallstreetrivals",
	})
	if err != nil {
		t.Fatalf("new token manager failed: %v", err)
	}
	return m
}

func testPrincipal() player.Principal {
	return player.Principal{
		PlayerID: "player-1",
		Username: "trader_one",
		Email:    "trader.one@example.com",
	}
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	if _, err := NewTokenManager(TokenManagerConfig{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, expiresAt, err := m.IssueAccessToken(testPrincipal())
	if err != nil {
		t.Fatalf("issue access token failed: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiry must be in the future: %s", expiresAt)
	}

	principal, err := m.VerifyAccessToken(t.Context(), token)
	if err != nil {
		t.Fatalf("verify access token failed: %v", err)
	}
	if principal.PlayerID != "player-1" || principal.Username != "trader_one" || principal.Email != "trader.one@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestTokenManager_RefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, _, err := m.IssueRefreshToken(testPrincipal())
	if err != nil {
		t.Fatalf("issue refresh token failed: %v", err)
	}

	playerID, err := m.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("verify refresh token failed: %v", err)
	}
	if playerID != "player-1" {
		t.Fatalf("unexpected player id: %s", playerID)
	}
}

func TestTokenManager_TokenUseIsEnforced(t *testing.T) {
	m := newTestManager(t)

	access, _, err := m.IssueAccessToken(testPrincipal())
	if err != nil {
		t.Fatalf("issue access token failed: %v", err)
	}
	refresh, _, err := m.IssueRefreshToken(testPrincipal())
	if err != nil {
		t.Fatalf("issue refresh token failed: %v", err)
	}

	if _, err := m.VerifyRefreshToken(access); err == nil {
		t.Fatalf("access token must not pass as refresh token")
	}
	if _, err := m.VerifyAccessToken(t.Context(), refresh); err == nil {
		t.Fatalf("refresh token must not pass as access token")
	}
	if err := m.VerifyPasswordResetToken("player-1", access); err == nil {
		t.Fatalf("access token must not pass as password reset token")
	}
}

func TestTokenManager_ExpiredTokenRejected(t *testing.T) {
	m := newTestManager(t)

	issuedAt := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issuedAt }
	token, _, err := m.IssueAccessToken(testPrincipal())
	if err != nil {
		t.Fatalf("issue access token failed: %v", err)
	}

	m.now = time.Now
	if _, err := m.VerifyAccessToken(t.Context(), token); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestTokenManager_WrongSecretRejected(t *testing.T) {
	m := newTestManager(t)

	token, _, err := m.IssueAccessToken(testPrincipal())
	if err != nil {
		t.Fatalf("issue access token failed: %v", err)
	}

	other, err := NewTokenManager(TokenManagerConfig{Secret: "different-secret"})
	if err != nil {
		t.Fatalf("new token manager failed: %v", err)
	}
	if _, err := other.VerifyAccessToken(t.Context(), token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestTokenManager_PasswordResetSubjectMismatch(t *testing.T) {
	m := newTestManager(t)

	token, err := m.IssuePasswordResetToken("player-1")
	if err != nil {
		t.Fatalf("issue password reset token failed: %v", err)
	}

	if err := m.VerifyPasswordResetToken("player-1", token); err != nil {
		t.Fatalf("verify password reset token failed: %v", err)
	}
	if err := m.VerifyPasswordResetToken("player-2", token); err == nil {
		t.Fatalf("reset token must be bound to its player")
	}
}
