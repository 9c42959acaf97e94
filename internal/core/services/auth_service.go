package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/pkg/jwt"
	"vpcs-backend/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AccessDeniedError is returned when a signed-in account is not allowed in
type AccessDeniedError struct {
	Email  string
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return "access denied: " + e.Reason
}

func (e *AccessDeniedError) Is(target error) bool {
	return target == domain.ErrAccessDenied
}

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.ApprovedUserRepository
	roleCodeRepo     repositories.RoleCodeRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	identity         IdentityProvider
	access           *domain.AccessTable
	publisher        Publisher
	cfg              *config.Config
	now              Clock
}

// NewAuthService creates a new auth service. identity may be nil when OAuth
// is not configured; role-code login still works.
func NewAuthService(
	userRepo repositories.ApprovedUserRepository,
	roleCodeRepo repositories.RoleCodeRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	identity IdentityProvider,
	access *domain.AccessTable,
	publisher Publisher,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		roleCodeRepo:     roleCodeRepo,
		refreshTokenRepo: refreshTokenRepo,
		identity:         identity,
		access:           access,
		publisher:        publisher,
		cfg:              cfg,
		now:              systemClock,
	}
}

// CodeLoginInput represents legacy role-code login input
type CodeLoginInput struct {
	Code string `json:"code" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// OAuthStart is what the browser needs to begin the OAuth round trip
type OAuthStart struct {
	URL   string `json:"url"`
	State string `json:"-"`
	Nonce string `json:"-"`
}

// SessionView describes the resolved session of a request
type SessionView struct {
	State   domain.SessionState          `json:"state"`
	Kind    string                       `json:"kind,omitempty"`
	User    *models.ApprovedUserResponse `json:"user,omitempty"`
	Modules []domain.ModuleInfo          `json:"modules,omitempty"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	SessionView
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Redirect     string `json:"redirect,omitempty"`
}

// ============================================================
// OAuth
// ============================================================

// BeginOAuth returns the provider URL and a signed state bound to a nonce.
// redirect is kept only when it is a path on this site.
func (s *AuthService) BeginOAuth(redirect string) (*OAuthStart, error) {
	if s.identity == nil {
		return nil, fmt.Errorf("%w: google sign-in", domain.ErrNotConfigured)
	}

	if !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") {
		redirect = ""
	}

	nonce := uuid.NewString()
	ttl := time.Duration(s.cfg.OAuth.StateTTLMinutes) * time.Minute
	state, err := jwt.GenerateStateToken(nonce, redirect, s.cfg.JWT.Secret, ttl)
	if err != nil {
		return nil, err
	}

	return &OAuthStart{
		URL:   s.identity.AuthCodeURL(state),
		State: state,
		Nonce: nonce,
	}, nil
}

// CompleteOAuth finishes the round trip. Only approved, Active accounts get a
// session; anyone else ends in AccessDenied with nothing issued.
func (s *AuthService) CompleteOAuth(ctx context.Context, code, state, nonce string) (*AuthResponse, error) {
	if s.identity == nil {
		return nil, fmt.Errorf("%w: google sign-in", domain.ErrNotConfigured)
	}

	// 1. Check the state came from us and from this browser
	claims, err := jwt.ValidateStateToken(state, s.cfg.JWT.Secret)
	if err != nil || claims.Nonce != nonce {
		return nil, domain.ErrInvalidState
	}
	if strings.TrimSpace(code) == "" {
		return nil, domain.NewValidationError("code", "code is required")
	}

	session := domain.SessionState{Phase: domain.PhaseAuthenticatingOAuth}

	// 2. Exchange the code for the account identity
	id, err := s.identity.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))

	// 3. Look the account up in the allow-list
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, s.deny(session, email, "not an approved user")
	}
	if err != nil {
		return nil, err
	}

	if !domain.UserStatus(user.Status).CanSignIn() {
		return nil, s.deny(session, email, fmt.Sprintf("account is %s", user.Status))
	}

	// 4. Resolve what the role may see
	var access *domain.AccessConfig
	if role, ok := domain.ParseRole(user.Role); ok {
		if cfg, err := s.access.For(role); err == nil {
			access = &cfg
		}
	}
	session = domain.Reduce(session, domain.SessionEvent{Kind: domain.EventOAuthApproved, Email: email, Access: access})
	if !session.IsAuthenticated() {
		s.logDenied(email, session.Reason)
		return nil, &AccessDeniedError{Email: email, Reason: session.Reason}
	}

	// 5. Record the login
	now := s.now()
	user.LastLoginAt = &now
	if id.Picture != "" {
		user.PhotoURL = id.Picture
	}
	if id.Subject != "" {
		user.GoogleUserID = id.Subject
	}
	user.UpdatedAt = nextUpdatedAt(user.UpdatedAt, now)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// 6. Issue the session
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	config.GetLogger().WithField("email", email).Info("✅ User signed in")

	return &AuthResponse{
		SessionView:  s.view(session, jwt.KindUser, user),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Redirect:     claims.Redirect,
	}, nil
}

func (s *AuthService) deny(session domain.SessionState, email, reason string) error {
	session = domain.Reduce(session, domain.SessionEvent{Kind: domain.EventOAuthRejected, Email: email, Reason: reason})
	s.logDenied(email, session.Reason)
	return &AccessDeniedError{Email: email, Reason: session.Reason}
}

func (s *AuthService) logDenied(email, reason string) {
	config.GetLogger().WithFields(logrus.Fields{
		"email":  email,
		"reason": reason,
	}).Warn("⚠️ Sign-in denied")
}

// ============================================================
// Role-code login
// ============================================================

// LoginWithCode signs in with a legacy six-digit role code. The session has
// no user behind it and no refresh token.
func (s *AuthService) LoginWithCode(ctx context.Context, input *CodeLoginInput) (*AuthResponse, error) {
	code := strings.TrimSpace(input.Code)
	if !password.ValidPIN(code) {
		return nil, domain.NewValidationError("code", "Code must be exactly 6 digits")
	}

	codes, err := s.roleCodeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var matched domain.Role
	for _, rc := range codes {
		if password.Verify(code, rc.CodeHash) {
			if role, ok := domain.ParseRole(rc.Role); ok {
				matched = role
				break
			}
		}
	}
	if matched == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cfg, err := s.access.For(matched)
	if err != nil {
		return nil, &AccessDeniedError{Reason: "no access configured for role"}
	}

	accessToken, err := jwt.GenerateCodeToken(string(matched), s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	session := domain.Reduce(domain.SessionState{Phase: domain.PhaseAuthenticatingOAuth},
		domain.SessionEvent{Kind: domain.EventOAuthApproved, Access: &cfg})

	config.GetLogger().WithField("role", matched).Info("✅ Role code sign-in")

	return &AuthResponse{
		SessionView: s.view(session, jwt.KindCode, nil),
		AccessToken: accessToken,
	}, nil
}

// ============================================================
// Tokens
// ============================================================

// RefreshToken rotates the refresh token and issues a new pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	// 2. Find the stored token by hash
	tokenHash := password.HashToken(refreshToken)
	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	// 3. Check if token is revoked or expired
	if storedToken.IsRevoked() {
		return nil, domain.ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	// 4. Get user and check it may still sign in
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if !domain.UserStatus(user.Status).CanSignIn() {
		return nil, domain.ErrUserInactive
	}

	// 5. Revoke old refresh token (rotation)
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return nil, err
	}

	// 6. Issue and store the new pair
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	session := s.resolveUser(user)
	return &AuthResponse{
		SessionView:  s.view(session, jwt.KindUser, user),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token. Role-code sessions have none.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return err
	}

	config.GetLogger().Info("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, actor domain.Actor) error {
	if actor.UserID == 0 {
		return nil
	}
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, actor.UserID); err != nil {
		return err
	}

	publish(ctx, s.publisher, domain.TopicSessions, domain.ActionRevoked, actor.UserID, actor, s.now())
	config.GetLogger().WithField("user_id", actor.UserID).Info("✅ All sessions revoked")
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// ============================================================
// Session
// ============================================================

// ResolveSession runs the session check for an access token. A missing,
// invalid or stale token resolves to Unauthenticated.
func (s *AuthService) ResolveSession(ctx context.Context, accessToken string) (*SessionView, error) {
	state := domain.InitialSession()
	noSession := domain.SessionEvent{Kind: domain.EventNoSession}

	if accessToken == "" {
		v := s.view(domain.Reduce(state, noSession), "", nil)
		return &v, nil
	}

	claims, err := s.ValidateAccessToken(accessToken)
	if err != nil {
		v := s.view(domain.Reduce(state, noSession), "", nil)
		return &v, nil
	}

	if claims.Kind == jwt.KindCode {
		var access *domain.AccessConfig
		if role, ok := domain.ParseRole(claims.Role); ok {
			if cfg, err := s.access.For(role); err == nil {
				access = &cfg
			}
		}
		v := s.view(domain.Reduce(state, domain.SessionEvent{Kind: domain.EventSessionFound, Access: access}), jwt.KindCode, nil)
		return &v, nil
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		v := s.view(domain.Reduce(state, noSession), "", nil)
		return &v, nil
	}
	if err != nil {
		return nil, err
	}
	if !domain.UserStatus(user.Status).CanSignIn() {
		v := s.view(domain.Reduce(state, noSession), "", nil)
		return &v, nil
	}

	session := s.resolveUser(user)
	if !session.IsAuthenticated() {
		v := s.view(session, "", nil)
		return &v, nil
	}
	v := s.view(session, jwt.KindUser, user)
	return &v, nil
}

// CurrentUserRole checks that a user token still belongs to an approved
// account and returns the role stored for it. A missing user, a status other
// than Active or an unknown stored role is ErrUserInactive.
func (s *AuthService) CurrentUserRole(ctx context.Context, userID uint) (domain.Role, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrUserInactive
	}
	if err != nil {
		return "", err
	}
	if !domain.UserStatus(user.Status).CanSignIn() {
		return "", domain.ErrUserInactive
	}
	role, ok := domain.ParseRole(user.Role)
	if !ok {
		return "", domain.ErrUserInactive
	}
	return role, nil
}

// resolveUser runs a found session through the reducer using the current role
func (s *AuthService) resolveUser(user *models.ApprovedUser) domain.SessionState {
	var access *domain.AccessConfig
	if role, ok := domain.ParseRole(user.Role); ok {
		if cfg, err := s.access.For(role); err == nil {
			access = &cfg
		}
	}
	return domain.Reduce(domain.InitialSession(), domain.SessionEvent{
		Kind:   domain.EventSessionFound,
		Email:  user.Email,
		Access: access,
	})
}

func (s *AuthService) view(state domain.SessionState, kind string, user *models.ApprovedUser) SessionView {
	v := SessionView{State: state, Kind: kind}
	if user != nil {
		v.User = user.ToResponse()
	}
	if state.Access != nil {
		v.Modules = s.access.AvailableModules(state.Access.Role)
	}
	return v
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.ApprovedUser) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
