package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shreddi/WallStreetRivals/internal/domain/player"
	idgen "github.com/shreddi/WallStreetRivals/internal/platform/id"
)

const minPasswordLength = 8

// PasswordHasher hides the hashing scheme from account flows.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenProvider issues and verifies the platform's auth tokens.
type TokenProvider interface {
	IssueAccessToken(p player.Principal) (string, time.Time, error)
	IssueRefreshToken(p player.Principal) (string, time.Time, error)
	VerifyRefreshToken(token string) (string, error)
	IssuePasswordResetToken(playerID string) (string, error)
	VerifyPasswordResetToken(playerID, token string) error
}

// RegisterInput is the incoming payload for account creation.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

// UpdatePlayerInput carries partial profile updates. Nil fields are left
// untouched.
type UpdatePlayerInput struct {
	Username          *string
	Email             *string
	FirstName         *string
	LastName          *string
	ProfilePicture    *string
	Birthday          *time.Time
	Education         *string
	Gender            *string
	Location          *string
	HereFor           *string
	WeeklySummary     *bool
	DailySummary      *bool
	ContestRankChange *bool
}

// AuthSession is the result of a successful login or token refresh.
type AuthSession struct {
	Player           player.Player
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AccountService struct {
	playerRepo player.Repository
	hasher     PasswordHasher
	tokens     TokenProvider
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewAccountService(
	playerRepo player.Repository,
	hasher PasswordHasher,
	tokens TokenProvider,
	idGen idgen.Generator,
	logger *slog.Logger,
) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		playerRepo: playerRepo,
		hasher:     hasher,
		tokens:     tokens,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Register")
	defer span.End()

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if input.Password != input.Password2 {
		return player.Player{}, fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return player.Player{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if _, exists, err := s.playerRepo.GetByUsername(ctx, input.Username); err != nil {
		return player.Player{}, fmt.Errorf("check username: %w", err)
	} else if exists {
		return player.Player{}, fmt.Errorf("%w: username %s is taken", ErrInvalidInput, input.Username)
	}
	if _, exists, err := s.playerRepo.GetByEmail(ctx, input.Email); err != nil {
		return player.Player{}, fmt.Errorf("check email: %w", err)
	} else if exists {
		return player.Player{}, fmt.Errorf("%w: email %s is already registered", ErrInvalidInput, input.Email)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return player.Player{}, fmt.Errorf("hash password: %w", err)
	}

	playerID, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	now := s.now().UTC()
	created := player.Player{
		ID:           playerID,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Alerts:       player.DefaultAlertPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := created.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.Create(ctx, created); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player registered",
		"player_id", created.ID,
		"username", created.Username,
	)

	return created, nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (AuthSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return AuthSession{}, fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}

	account, exists, err := s.playerRepo.GetByUsername(ctx, username)
	if err != nil {
		return AuthSession{}, fmt.Errorf("get player by username: %w", err)
	}
	if !exists {
		return AuthSession{}, fmt.Errorf("%w: unknown username or wrong password", ErrInvalidCredentials)
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return AuthSession{}, fmt.Errorf("%w: unknown username or wrong password", ErrInvalidCredentials)
	}

	return s.issueSession(ctx, account)
}

func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (AuthSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Refresh")
	defer span.End()

	playerID, err := s.tokens.VerifyRefreshToken(strings.TrimSpace(refreshToken))
	if err != nil {
		return AuthSession{}, err
	}

	account, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return AuthSession{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return AuthSession{}, fmt.Errorf("%w: player no longer exists", ErrUnauthorized)
	}

	return s.issueSession(ctx, account)
}

// RequestPasswordReset issues a reset token when the email is registered.
// Unknown emails report success without a token so the endpoint cannot be
// used to probe accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (string, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.RequestPasswordReset")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	account, exists, err := s.playerRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("get player by email: %w", err)
	}
	if !exists {
		s.logger.InfoContext(ctx, "password reset requested for unknown email")
		return "", "", nil
	}

	token, err := s.tokens.IssuePasswordResetToken(account.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue password reset token: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset token issued", "player_id", account.ID)

	return account.ID, token, nil
}

func (s *AccountService) ConfirmPasswordReset(ctx context.Context, playerID, token, password, password2 string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.ConfirmPasswordReset")
	defer span.End()

	if password != password2 {
		return fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if err := s.tokens.VerifyPasswordResetToken(playerID, strings.TrimSpace(token)); err != nil {
		return err
	}

	account, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	account.PasswordHash = hash
	account.UpdatedAt = s.now().UTC()
	if err := s.playerRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("update player password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset completed", "player_id", account.ID)

	return nil
}

func (s *AccountService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.ListPlayers")
	defer span.End()

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return items, nil
}

func (s *AccountService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	account, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return account, nil
}

// UpdatePlayer applies a partial profile update. Players can only change
// their own profile.
func (s *AccountService) UpdatePlayer(ctx context.Context, callerID, playerID string, input UpdatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.UpdatePlayer")
	defer span.End()

	if callerID != playerID {
		return player.Player{}, fmt.Errorf("%w: players can only update their own profile", ErrUnauthorized)
	}

	account, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username != account.Username {
			if _, exists, err := s.playerRepo.GetByUsername(ctx, username); err != nil {
				return player.Player{}, fmt.Errorf("check username: %w", err)
			} else if exists {
				return player.Player{}, fmt.Errorf("%w: username %s is taken", ErrInvalidInput, username)
			}
			account.Username = username
		}
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != account.Email {
			if _, exists, err := s.playerRepo.GetByEmail(ctx, email); err != nil {
				return player.Player{}, fmt.Errorf("check email: %w", err)
			} else if exists {
				return player.Player{}, fmt.Errorf("%w: email %s is already registered", ErrInvalidInput, email)
			}
			account.Email = email
		}
	}
	if input.FirstName != nil {
		account.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		account.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.ProfilePicture != nil {
		account.ProfilePicture = strings.TrimSpace(*input.ProfilePicture)
	}
	if input.Birthday != nil {
		birthday := *input.Birthday
		account.Birthday = &birthday
	}
	if input.Education != nil {
		account.Education = strings.TrimSpace(*input.Education)
	}
	if input.Gender != nil {
		account.Gender = strings.TrimSpace(*input.Gender)
	}
	if input.Location != nil {
		account.Location = strings.TrimSpace(*input.Location)
	}
	if input.HereFor != nil {
		account.HereFor = player.HereFor(strings.TrimSpace(*input.HereFor))
	}
	if input.WeeklySummary != nil {
		account.Alerts.WeeklySummary = *input.WeeklySummary
	}
	if input.DailySummary != nil {
		account.Alerts.DailySummary = *input.DailySummary
	}
	if input.ContestRankChange != nil {
		account.Alerts.ContestRankChange = *input.ContestRankChange
	}

	account.UpdatedAt = s.now().UTC()
	if err := account.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.Update(ctx, account); err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}

	return account, nil
}

func (s *AccountService) issueSession(ctx context.Context, account player.Player) (AuthSession, error) {
	principal := player.Principal{
		PlayerID: account.ID,
		Username: account.Username,
		Email:    account.Email,
	}

	accessToken, accessExpiry, err := s.tokens.IssueAccessToken(principal)
	if err != nil {
		return AuthSession{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, refreshExpiry, err := s.tokens.IssueRefreshToken(principal)
	if err != nil {
		return AuthSession{}, fmt.Errorf("issue refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "session issued", "player_id", account.ID)

	return AuthSession{
		Player:           account,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}
