package services

import (
	"context"
	"errors"
	"testing"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/pkg/jwt"
	"vpcs-backend/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc      *AuthService
	users    *fakeUserRepo
	tokens   *fakeTokenRepo
	identity *fakeIdentity
	pub      *recordingPublisher
}

func newAuthFixture(t *testing.T, users ...*models.ApprovedUser) *authFixture {
	t.Helper()

	hash, err := password.HashWithCost("482913", bcrypt.MinCost)
	require.NoError(t, err)

	f := &authFixture{
		users:  newFakeUserRepo(users...),
		tokens: newFakeTokenRepo(),
		identity: &fakeIdentity{identity: &domain.Identity{
			Subject:       "g-123",
			Email:         "Ravi@Example.com",
			EmailVerified: true,
			Picture:       "https://example.test/ravi.png",
		}},
		pub: &recordingPublisher{},
	}
	codes := &fakeRoleCodeRepo{codes: []*models.RoleCode{{Role: "Management", CodeHash: hash}}}
	f.svc = NewAuthService(f.users, codes, f.tokens, f.identity, domain.DefaultAccessTable(), f.pub, testConfig())
	f.svc.now = fixedClock(testStart)
	return f
}

func activeUser(email string, role domain.Role) *models.ApprovedUser {
	return &models.ApprovedUser{Email: email, Role: string(role), FullName: "Test User", Status: string(domain.UserActive)}
}

func completeOAuth(t *testing.T, f *authFixture) (*AuthResponse, error) {
	t.Helper()
	start, err := f.svc.BeginOAuth("/cashflow")
	require.NoError(t, err)
	return f.svc.CompleteOAuth(context.Background(), "auth-code", start.State, start.Nonce)
}

func TestBeginOAuth(t *testing.T) {
	f := newAuthFixture(t)

	start, err := f.svc.BeginOAuth("/cashflow")
	require.NoError(t, err)
	assert.Contains(t, start.URL, "state=")
	assert.NotEmpty(t, start.Nonce)

	claims, err := jwt.ValidateStateToken(start.State, testConfig().JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, start.Nonce, claims.Nonce)
	assert.Equal(t, "/cashflow", claims.Redirect)

	t.Run("drops off-site redirects", func(t *testing.T) {
		for _, r := range []string{"https://evil.test/", "//evil.test/x"} {
			start, err := f.svc.BeginOAuth(r)
			require.NoError(t, err)
			claims, err := jwt.ValidateStateToken(start.State, testConfig().JWT.Secret)
			require.NoError(t, err)
			assert.Empty(t, claims.Redirect)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		svc := NewAuthService(f.users, &fakeRoleCodeRepo{}, f.tokens, nil, domain.DefaultAccessTable(), nil, testConfig())
		_, err := svc.BeginOAuth("")
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})
}

func TestCompleteOAuth_ApprovedUser(t *testing.T) {
	f := newAuthFixture(t, activeUser("ravi@example.com", domain.RoleSupervisor))

	resp, err := completeOAuth(t, f)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseAuthenticated, resp.State.Phase)
	assert.Equal(t, "ravi@example.com", resp.State.Email)
	assert.Equal(t, domain.RoleSupervisor, resp.State.Access.Role)
	assert.Equal(t, jwt.KindUser, resp.Kind)
	assert.Equal(t, "/cashflow", resp.Redirect)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.Len(t, resp.Modules, 2)
	assert.Equal(t, domain.ModuleCalculator, resp.Modules[0].Key)
	assert.Equal(t, domain.ModuleTankerManagement, resp.Modules[1].Key)

	stored, _ := f.users.GetByEmail(context.Background(), "ravi@example.com")
	require.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, "g-123", stored.GoogleUserID)
	assert.Equal(t, "https://example.test/ravi.png", stored.PhotoURL)
	assert.Len(t, f.tokens.tokens, 1)
}

func TestCompleteOAuth_AccessDenied(t *testing.T) {
	tests := []struct {
		name  string
		users []*models.ApprovedUser
	}{
		{name: "not on the allow-list"},
		{name: "suspended", users: []*models.ApprovedUser{{
			Email: "ravi@example.com", Role: "Supervisor", FullName: "Ravi", Status: string(domain.UserSuspended),
		}}},
		{name: "role without access", users: []*models.ApprovedUser{{
			Email: "ravi@example.com", Role: "Auditor", FullName: "Ravi", Status: string(domain.UserActive),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, tt.users...)

			resp, err := completeOAuth(t, f)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, domain.ErrAccessDenied)

			var denied *AccessDeniedError
			require.True(t, errors.As(err, &denied))
			assert.Equal(t, "ravi@example.com", denied.Email)
			assert.NotEmpty(t, denied.Reason)
			assert.Empty(t, f.tokens.tokens, "no session may be issued")
		})
	}
}

func TestCompleteOAuth_BadState(t *testing.T) {
	f := newAuthFixture(t, activeUser("ravi@example.com", domain.RoleSupervisor))
	start, err := f.svc.BeginOAuth("")
	require.NoError(t, err)

	_, err = f.svc.CompleteOAuth(context.Background(), "auth-code", start.State, "other-nonce")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.CompleteOAuth(context.Background(), "auth-code", "garbage", start.Nonce)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCompleteOAuth_ExchangeFails(t *testing.T) {
	f := newAuthFixture(t, activeUser("ravi@example.com", domain.RoleSupervisor))
	f.identity.err = errors.New("email not verified")

	_, err := completeOAuth(t, f)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginWithCode(t *testing.T) {
	f := newAuthFixture(t)

	t.Run("valid code", func(t *testing.T) {
		resp, err := f.svc.LoginWithCode(context.Background(), &CodeLoginInput{Code: "482913"})
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseAuthenticated, resp.State.Phase)
		assert.Equal(t, domain.RoleManagement, resp.State.Access.Role)
		assert.Equal(t, jwt.KindCode, resp.Kind)
		assert.Empty(t, resp.RefreshToken)

		claims, err := f.svc.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, jwt.KindCode, claims.Kind)
		assert.Equal(t, "Management", claims.Role)
	})

	t.Run("wrong code", func(t *testing.T) {
		_, err := f.svc.LoginWithCode(context.Background(), &CodeLoginInput{Code: "111111"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("malformed code", func(t *testing.T) {
		_, err := f.svc.LoginWithCode(context.Background(), &CodeLoginInput{Code: "12ab"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRefreshToken_Rotates(t *testing.T) {
	f := newAuthFixture(t, activeUser("ravi@example.com", domain.RoleAdministrator))
	first, err := completeOAuth(t, f)
	require.NoError(t, err)

	second, err := f.svc.RefreshToken(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, domain.PhaseAuthenticated, second.State.Phase)

	_, err = f.svc.RefreshToken(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	_, err = f.svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestRefreshToken_InactiveUser(t *testing.T) {
	f := newAuthFixture(t, activeUser("ravi@example.com", domain.RoleAdministrator))
	first, err := completeOAuth(t, f)
	require.NoError(t, err)

	u := f.users.users[1]
	u.Status = string(domain.UserInactive)

	_, err = f.svc.RefreshToken(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestLogoutAll(t *testing.T) {
	f := newAuthFixture(t, activeUser("ravi@example.com", domain.RoleAdministrator))
	resp, err := completeOAuth(t, f)
	require.NoError(t, err)

	require.NoError(t, f.svc.LogoutAll(context.Background(), domain.Actor{UserID: 1, Email: "ravi@example.com"}))
	assert.Equal(t, []uint{1}, f.tokens.revokedAll)
	assert.Contains(t, f.pub.topics(), "sessions/revoked")

	_, err = f.svc.RefreshToken(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestResolveSession(t *testing.T) {
	f := newAuthFixture(t, activeUser("ravi@example.com", domain.RoleManagement))
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		v, err := f.svc.ResolveSession(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseUnauthenticated, v.State.Phase)
		assert.Empty(t, v.Modules)
	})

	t.Run("invalid token", func(t *testing.T) {
		v, err := f.svc.ResolveSession(ctx, "garbage")
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseUnauthenticated, v.State.Phase)
	})

	t.Run("signed-in user", func(t *testing.T) {
		resp, err := completeOAuth(t, f)
		require.NoError(t, err)

		v, err := f.svc.ResolveSession(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseAuthenticated, v.State.Phase)
		require.NotNil(t, v.User)
		assert.Equal(t, "ravi@example.com", v.User.Email)
		assert.Len(t, v.Modules, 3)
	})

	t.Run("user deactivated since sign-in", func(t *testing.T) {
		token, err := jwt.GenerateAccessToken(1, "ravi@example.com", "Management", testConfig().JWT.Secret, 15)
		require.NoError(t, err)
		f.users.users[1].Status = string(domain.UserDecommissioned)

		v, err := f.svc.ResolveSession(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseUnauthenticated, v.State.Phase)
	})

	t.Run("role code", func(t *testing.T) {
		token, err := jwt.GenerateCodeToken("Supervisor", testConfig().JWT.Secret, 15)
		require.NoError(t, err)

		v, err := f.svc.ResolveSession(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseAuthenticated, v.State.Phase)
		assert.Equal(t, jwt.KindCode, v.Kind)
		assert.Nil(t, v.User)
	})
}

func TestCurrentUserRole_FollowsStoredAccount(t *testing.T) {
	f := newAuthFixture(t, activeUser("ravi@example.com", domain.RoleAdministrator))
	ctx := context.Background()
	_, err := completeOAuth(t, f)
	require.NoError(t, err)

	role, err := f.svc.CurrentUserRole(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, role)

	f.users.users[1].Role = string(domain.RoleSupervisor)
	role, err = f.svc.CurrentUserRole(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupervisor, role)

	users := NewUserService(f.users, f.tokens, f.pub)
	_, err = users.UpdateStatus(ctx, 1, &UpdateStatusInput{Status: "Suspended"}, domain.Actor{UserID: 2, Email: "admin@example.com"})
	require.NoError(t, err)

	_, err = f.svc.CurrentUserRole(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrUserInactive)

	_, err = f.svc.CurrentUserRole(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}
