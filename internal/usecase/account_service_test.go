package usecase

import (
	"errors"
	"testing"

	"github.com/shreddi/WallStreetRivals/internal/domain/player"
	"github.com/shreddi/WallStreetRivals/internal/infrastructure/repository/memory"
)

func newAccountService(seed ...player.Player) *AccountService {
	svc := NewAccountService(
		memory.NewPlayerRepository(seed...),
		fakeHasher{},
		fakeTokens{},
		&seqIDGen{prefix: "player"},
		nil,
	)
	svc.now = fixedClock
	return svc
}

func seededAccount() player.Player {
	return player.Player{
		ID:           "acct-1",
		Username:     "trader_one",
		Email:        "trader.one@example.com",
		PasswordHash: "hashed:opensesame",
		FirstName:    "Tracy",
		LastName:     "Oner",
		Alerts:       player.DefaultAlertPreferences(),
		CreatedAt:    fixedNow.AddDate(0, -1, 0),
		UpdatedAt:    fixedNow.AddDate(0, -1, 0),
	}
}

func TestAccountService_Register(t *testing.T) {
	svc := newAccountService()

	created, err := svc.Register(t.Context(), RegisterInput{
		Username:  "fresh_trader",
		Email:     "Fresh.Trader@Example.com",
		Password:  "opensesame",
		Password2: "opensesame",
		FirstName: "Fran",
		LastName:  "Trader",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if created.ID != "player-1" {
		t.Fatalf("unexpected player id: %s", created.ID)
	}
	if created.Email != "fresh.trader@example.com" {
		t.Fatalf("email not lowercased: %s", created.Email)
	}
	if created.PasswordHash != "hashed:opensesame" {
		t.Fatalf("unexpected password hash: %s", created.PasswordHash)
	}
	if !created.Alerts.WeeklySummary || created.Alerts.DailySummary {
		t.Fatalf("unexpected alert defaults: %+v", created.Alerts)
	}
	if !created.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected created at: %s", created.CreatedAt)
	}
}

func TestAccountService_Register_PasswordRules(t *testing.T) {
	svc := newAccountService()

	_, err := svc.Register(t.Context(), RegisterInput{
		Username:  "fresh_trader",
		Email:     "fresh.trader@example.com",
		Password:  "opensesame",
		Password2: "different!",
		FirstName: "Fran",
		LastName:  "Trader",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for mismatch, got %v", err)
	}

	_, err = svc.Register(t.Context(), RegisterInput{
		Username:  "fresh_trader",
		Email:     "fresh.trader@example.com",
		Password:  "short",
		Password2: "short",
		FirstName: "Fran",
		LastName:  "Trader",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestAccountService_Register_RejectDuplicateUsername(t *testing.T) {
	svc := newAccountService(seededAccount())

	_, err := svc.Register(t.Context(), RegisterInput{
		Username:  "trader_one",
		Email:     "someone.else@example.com",
		Password:  "opensesame",
		Password2: "opensesame",
		FirstName: "Sam",
		LastName:  "Else",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountService_Register_RejectDuplicateEmail(t *testing.T) {
	svc := newAccountService(seededAccount())

	_, err := svc.Register(t.Context(), RegisterInput{
		Username:  "someone_else",
		Email:     "TRADER.ONE@example.com",
		Password:  "opensesame",
		Password2: "opensesame",
		FirstName: "Sam",
		LastName:  "Else",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountService_Login(t *testing.T) {
	svc := newAccountService(seededAccount())

	session, err := svc.Login(t.Context(), "trader_one", "opensesame")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if session.AccessToken != "access-acct-1" {
		t.Fatalf("unexpected access token: %s", session.AccessToken)
	}
	if session.RefreshToken != "refresh-acct-1" {
		t.Fatalf("unexpected refresh token: %s", session.RefreshToken)
	}
	if session.Player.Username != "trader_one" {
		t.Fatalf("unexpected session player: %s", session.Player.Username)
	}
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	svc := newAccountService(seededAccount())

	if _, err := svc.Login(t.Context(), "trader_one", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(t.Context(), "no_such_user", "opensesame"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAccountService_Refresh(t *testing.T) {
	svc := newAccountService(seededAccount())

	session, err := svc.Refresh(t.Context(), "refresh-acct-1")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if session.Player.ID != "acct-1" {
		t.Fatalf("unexpected session player: %s", session.Player.ID)
	}

	if _, err := svc.Refresh(t.Context(), "refresh-gone-player"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for deleted player, got %v", err)
	}
	if _, err := svc.Refresh(t.Context(), "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad token, got %v", err)
	}
}

func TestAccountService_RequestPasswordReset(t *testing.T) {
	svc := newAccountService(seededAccount())

	playerID, token, err := svc.RequestPasswordReset(t.Context(), "Trader.One@example.com")
	if err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	if playerID != "acct-1" || token != "reset-acct-1" {
		t.Fatalf("unexpected reset result: player=%s token=%s", playerID, token)
	}
}

func TestAccountService_RequestPasswordReset_UnknownEmailStaysSilent(t *testing.T) {
	svc := newAccountService(seededAccount())

	playerID, token, err := svc.RequestPasswordReset(t.Context(), "nobody@example.com")
	if err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if playerID != "" || token != "" {
		t.Fatalf("unknown email must not leak a token: player=%s token=%s", playerID, token)
	}
}

func TestAccountService_ConfirmPasswordReset(t *testing.T) {
	svc := newAccountService(seededAccount())

	if err := svc.ConfirmPasswordReset(t.Context(), "acct-1", "reset-acct-1", "newsecret1", "newsecret1"); err != nil {
		t.Fatalf("confirm reset failed: %v", err)
	}

	if _, err := svc.Login(t.Context(), "trader_one", "newsecret1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(t.Context(), "trader_one", "opensesame"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
}

func TestAccountService_ConfirmPasswordReset_BadToken(t *testing.T) {
	svc := newAccountService(seededAccount())

	err := svc.ConfirmPasswordReset(t.Context(), "acct-1", "reset-someone-else", "newsecret1", "newsecret1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAccountService_UpdatePlayer(t *testing.T) {
	svc := newAccountService(seededAccount())

	location := "  New York  "
	daily := true
	updated, err := svc.UpdatePlayer(t.Context(), "acct-1", "acct-1", UpdatePlayerInput{
		Location:     &location,
		DailySummary: &daily,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Location != "New York" {
		t.Fatalf("location not trimmed: %q", updated.Location)
	}
	if !updated.Alerts.DailySummary {
		t.Fatalf("daily summary flag not applied")
	}
	if !updated.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected updated at: %s", updated.UpdatedAt)
	}
}

func TestAccountService_UpdatePlayer_OnlySelf(t *testing.T) {
	svc := newAccountService(seededAccount())

	username := "sneaky"
	_, err := svc.UpdatePlayer(t.Context(), "acct-2", "acct-1", UpdatePlayerInput{Username: &username})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAccountService_UpdatePlayer_RejectTakenUsername(t *testing.T) {
	other := seededAccount()
	other.ID = "acct-2"
	other.Username = "trader_two"
	other.Email = "trader.two@example.com"
	svc := newAccountService(seededAccount(), other)

	username := "trader_two"
	_, err := svc.UpdatePlayer(t.Context(), "acct-1", "acct-1", UpdatePlayerInput{Username: &username})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
