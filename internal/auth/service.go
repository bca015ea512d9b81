// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fofanamamadou/affiliation-project/internal/config"
	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/identity"
	"github.com/fofanamamadou/affiliation-project/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrEmailExists        = errors.New("email already exists")
	ErrTokenReuse         = errors.New("token reuse detected")
)

// AccountInfo is the auth-facing view of an account, admin or influencer.
type AccountInfo struct {
	ID              string
	Nom             string
	Email           string
	PasswordHash    string
	Role            string
	CodeAffiliation string
	Actif           bool
	FailedLogins    int
	LockedUntil     *time.Time
}

// AdminProvider resolves back-office accounts. Implemented by admin.Service.
type AdminProvider interface {
	GetByIdentifier(ctx context.Context, identifier string) (*AccountInfo, error)
	GetByID(ctx context.Context, id string) (*AccountInfo, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// InfluenceurProvider resolves influencer accounts and maintains their
// failed-login state. Implemented by influencer.Service.
type InfluenceurProvider interface {
	GetByEmail(ctx context.Context, email string) (*AccountInfo, error)
	GetByID(ctx context.Context, id string) (*AccountInfo, error)
	Register(
		ctx context.Context,
		nom, email, passwordHash string,
	) (*AccountInfo, error)
	RecordLoginFailure(
		ctx context.Context,
		id string,
		failures int,
		lockedUntil *time.Time,
	) error
	RecordLoginSuccess(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type Service struct {
	repo         Repository
	jwt          *JWTManager
	admins       AdminProvider
	influenceurs InfluenceurProvider
	redis        *redis.Client
	security     config.SecurityConfig
	accessExpire time.Duration
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	admins AdminProvider,
	influenceurs InfluenceurProvider,
	redisClient *redis.Client,
	security config.SecurityConfig,
	accessExpire time.Duration,
) *Service {
	return &Service{
		repo:         repo,
		jwt:          jwt,
		admins:       admins,
		influenceurs: influenceurs,
		redis:        redisClient,
		security:     security,
		accessExpire: accessExpire,
	}
}

// Login authenticates an identifier/password pair. Admin accounts are tried
// first (username, then email), then influencer accounts by email. Every
// failure surfaces as the same generic error so callers cannot tell which
// accounts exist.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	admin, err := s.admins.GetByIdentifier(ctx, req.Identifier)
	if err == nil {
		return s.loginAdmin(ctx, admin, req.Password, userAgent, ipAddress)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("get admin: %w", err)
	}

	inf, err := s.influenceurs.GetByEmail(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get influenceur: %w", err)
	}

	return s.loginInfluenceur(ctx, inf, req.Password, userAgent, ipAddress)
}

func (s *Service) loginAdmin(
	ctx context.Context,
	admin *AccountInfo,
	password, userAgent, ipAddress string,
) (*AuthResponse, error) {
	valid, err := core.VerifyPasswordTimingSafe(password, &admin.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	ident := identity.Admin(admin.ID)
	return s.createAuthResponse(ctx, ident, admin, userAgent, ipAddress, "", nil)
}

func (s *Service) loginInfluenceur(
	ctx context.Context,
	inf *AccountInfo,
	password, userAgent, ipAddress string,
) (*AuthResponse, error) {
	if !inf.Actif {
		//nolint:errcheck // timing attack prevention
		_, _ = core.VerifyPasswordTimingSafe(password, nil)
		return nil, ErrInvalidCredentials
	}

	// A lock that has not expired refuses even correct passwords. An expired
	// lock is treated as lifted; the counter restarts from the next failure.
	if inf.LockedUntil != nil && time.Now().Before(*inf.LockedUntil) {
		return nil, ErrAccountLocked
	}

	valid, err := core.VerifyPasswordTimingSafe(password, &inf.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		failures := inf.FailedLogins + 1
		if inf.LockedUntil != nil && !time.Now().Before(*inf.LockedUntil) {
			failures = 1
		}

		var lockedUntil *time.Time
		if failures >= s.security.LockoutThreshold {
			until := time.Now().Add(s.security.LockoutDuration)
			lockedUntil = &until
		}

		//nolint:errcheck // lockout bookkeeping must not mask the auth failure
		_ = s.influenceurs.RecordLoginFailure(ctx, inf.ID, failures, lockedUntil)

		return nil, ErrInvalidCredentials
	}

	if err := s.influenceurs.RecordLoginSuccess(ctx, inf.ID); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	ident := identity.Influenceur(inf.ID, identity.PermissionsForRole(inf.Role))
	return s.createAuthResponse(ctx, ident, inf, userAgent, ipAddress, "", nil)
}

// Register creates an influencer account from the public signup endpoint and
// logs it straight in.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	inf, err := s.influenceurs.Register(ctx, req.Nom, req.Email, passwordHash)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("register influenceur: %w", err)
	}

	ident := identity.Influenceur(inf.ID, identity.PermissionsForRole(inf.Role))
	return s.createAuthResponse(ctx, ident, inf, userAgent, ipAddress, "", nil)
}

func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	tokenHash := core.HashToken(refreshToken)

	storedToken, err := s.repo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if storedToken.IsUsed {
		//nolint:errcheck // security revocation continues regardless
		_ = s.repo.RevokeByFamilyID(ctx, storedToken.FamilyID)
		return nil, ErrTokenReuse
	}

	if !storedToken.IsValid() {
		if storedToken.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	ident, account, err := s.resolveSubject(ctx, storedToken.Subject)
	if err != nil {
		return nil, err
	}

	return s.createAuthResponse(
		ctx,
		ident,
		account,
		userAgent,
		ipAddress,
		storedToken.FamilyID,
		&storedToken.ID,
	)
}

// Logout revokes the presented refresh token's family and blacklists the
// access token jti for the remainder of its lifetime.
func (s *Service) Logout(
	ctx context.Context,
	refreshToken, subject, jti string,
) error {
	tokenHash := core.HashToken(refreshToken)

	storedToken, err := s.repo.FindByHash(ctx, tokenHash)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("find token: %w", err)
	}

	if storedToken != nil {
		if storedToken.Subject != subject {
			return fmt.Errorf("logout: %w", core.ErrForbidden)
		}

		if err := s.repo.RevokeByFamilyID(ctx, storedToken.FamilyID); err != nil {
			return fmt.Errorf("revoke token family: %w", err)
		}
	}

	if err := s.blacklistJTI(ctx, jti); err != nil {
		return fmt.Errorf("blacklist access token: %w", err)
	}

	return nil
}

func (s *Service) blacklistJTI(ctx context.Context, jti string) error {
	if jti == "" {
		return nil
	}
	return s.redis.Set(ctx, "blacklist:"+jti, "1", s.accessExpire).Err()
}

func (s *Service) IsAccessTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	exists, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

// VerifyAccessToken verifies the signature and claims, then rejects tokens
// whose jti has been blacklisted by a logout. Satisfies
// middleware.TokenVerifier.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.IsAccessTokenBlacklisted(ctx, claims.JTI)
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}
	if blacklisted {
		return nil, fmt.Errorf("verify access token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

var _ middleware.TokenVerifier = (*Service)(nil)

func (s *Service) Profile(
	ctx context.Context,
	ident identity.Identity,
) (*ProfileResponse, error) {
	_, account, err := s.resolveSubject(ctx, ident.Subject())
	if err != nil {
		return nil, err
	}

	profile := toProfile(ident, account)
	return &profile, nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	ident identity.Identity,
	currentPassword, newPassword string,
) error {
	_, account, err := s.resolveSubject(ctx, ident.Subject())
	if err != nil {
		return err
	}

	valid, err := core.VerifyPassword(currentPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	switch ident.Kind {
	case identity.KindAdmin:
		err = s.admins.UpdatePassword(ctx, ident.ID, newHash)
	case identity.KindInfluenceur:
		err = s.influenceurs.UpdatePassword(ctx, ident.ID, newHash)
	}
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.repo.RevokeAllForSubject(ctx, ident.Subject()); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	return nil
}

func (s *Service) resolveSubject(
	ctx context.Context,
	subject string,
) (identity.Identity, *AccountInfo, error) {
	kind, id, err := identity.ParseSubject(subject)
	if err != nil {
		return identity.Identity{}, nil, fmt.Errorf(
			"resolve subject: %w",
			core.ErrTokenInvalid,
		)
	}

	switch kind {
	case identity.KindAdmin:
		account, err := s.admins.GetByID(ctx, id)
		if err != nil {
			return identity.Identity{}, nil, fmt.Errorf("get admin: %w", err)
		}
		return identity.Admin(id), account, nil

	case identity.KindInfluenceur:
		account, err := s.influenceurs.GetByID(ctx, id)
		if err != nil {
			return identity.Identity{}, nil, fmt.Errorf(
				"get influenceur: %w",
				err,
			)
		}
		if !account.Actif {
			return identity.Identity{}, nil, fmt.Errorf(
				"resolve subject: %w",
				core.ErrTokenRevoked,
			)
		}
		perms := identity.PermissionsForRole(account.Role)
		return identity.Influenceur(id, perms), account, nil
	}

	return identity.Identity{}, nil, fmt.Errorf(
		"resolve subject: %w",
		core.ErrTokenInvalid,
	)
}

func (s *Service) createAuthResponse(
	ctx context.Context,
	ident identity.Identity,
	account *AccountInfo,
	userAgent, ipAddress, familyID string,
	oldTokenID *string,
) (*AuthResponse, error) {
	accessToken, err := s.jwt.CreateAccessToken(ident)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.jwt.CreateRefreshToken(ident.Subject(), familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	newTokenID := uuid.New().String()

	refreshTokenEntity := &RefreshToken{
		ID:        newTokenID,
		Subject:   ident.Subject(),
		TokenHash: refreshData.Hash,
		FamilyID:  refreshData.FamilyID,
		ExpiresAt: refreshData.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := s.repo.Create(ctx, refreshTokenEntity); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if oldTokenID != nil {
		//nolint:errcheck // best-effort token chain tracking
		_ = s.repo.MarkAsUsed(ctx, *oldTokenID, newTokenID)
	}

	return &AuthResponse{
		Profile: toProfile(ident, account),
		Tokens: TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshData.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.accessExpire / time.Second),
			ExpiresAt:    time.Now().Add(s.accessExpire),
		},
	}, nil
}

func toProfile(ident identity.Identity, account *AccountInfo) ProfileResponse {
	return ProfileResponse{
		ID:              account.ID,
		Kind:            string(ident.Kind),
		Nom:             account.Nom,
		Email:           account.Email,
		Role:            account.Role,
		CodeAffiliation: account.CodeAffiliation,
		Permissions:     ident.Permissions.Strings(),
	}
}
