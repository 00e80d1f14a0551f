package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techgarantias/internal/core/auth"
	"techgarantias/internal/core/cache"
	"techgarantias/internal/domain"
	"techgarantias/pkg/utils"
)

type memRevoker struct{ ids map[string]time.Duration }

func (m *memRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.ids[jti] = ttl
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.ids[jti]
	return ok, nil
}

func newAuthService(repo domain.ProfileRepository, rev auth.Revoker) (*AuthService, *auth.JWTer) {
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	return NewAuthService(repo, j, rev, AuthOptions{
		AdminEmails:    []string{"Admin@TechGarantias.com.br"},
		MinPasswordLen: 6,
	}, zap.NewNop()), j
}

func TestAuthService_SignUp(t *testing.T) {
	var saved *domain.Profile
	repo := &mockProfileRepo{createFn: func(_ context.Context, p *domain.Profile) error {
		saved = p
		return nil
	}}
	svc, _ := newAuthService(repo, nil)

	p, err := svc.SignUp(context.Background(), domain.SignUpInput{
		Email: "  Maria@Example.com ", Password: "secret1", FullName: " Maria ", CompanyName: "",
	})
	require.NoError(t, err)
	assert.Same(t, saved, p)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "maria@example.com", p.Email)
	assert.Equal(t, "Maria", p.FullName)
	assert.Nil(t, p.CompanyName)
	assert.Equal(t, domain.RoleClient, p.Role)
	assert.True(t, utils.CheckPassword("secret1", p.PasswordHash))
}

func TestAuthService_SignUpAdminEmail(t *testing.T) {
	svc, _ := newAuthService(&mockProfileRepo{}, nil)
	p, err := svc.SignUp(context.Background(), domain.SignUpInput{
		Email: "admin@techgarantias.com.br", Password: "secret1", FullName: "Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, p.Role)
}

func TestAuthService_SignUpAdminEmailAfterBootstrap(t *testing.T) {
	svc, _ := newAuthService(&mockProfileRepo{hasAdminFn: func(context.Context) (bool, error) {
		return true, nil
	}}, nil)
	p, err := svc.SignUp(context.Background(), domain.SignUpInput{
		Email: "admin@techgarantias.com.br", Password: "secret1", FullName: "Impostor",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, p.Role)
}

func TestAuthService_SignUpAdminCheckFails(t *testing.T) {
	created := false
	svc, _ := newAuthService(&mockProfileRepo{
		hasAdminFn: func(context.Context) (bool, error) {
			return false, domain.StoreFailure("count admins", errors.New("db down"))
		},
		createFn: func(context.Context, *domain.Profile) error {
			created = true
			return nil
		},
	}, nil)
	_, err := svc.SignUp(context.Background(), domain.SignUpInput{
		Email: "admin@techgarantias.com.br", Password: "secret1", FullName: "Admin",
	})
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.False(t, created)
}

func TestAuthService_SignUpRejects(t *testing.T) {
	svc, _ := newAuthService(&mockProfileRepo{
		createFn: func(context.Context, *domain.Profile) error { return domain.ErrConflict },
	}, nil)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, domain.SignUpInput{Email: "x@example.com", Password: "123", FullName: "X"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SignUp(ctx, domain.SignUpInput{Email: "not-an-email", Password: "secret1", FullName: "X"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SignUp(ctx, domain.SignUpInput{Email: "x@example.com", Password: "secret1", FullName: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SignUp(ctx, domain.SignUpInput{Email: "x@example.com", Password: "secret1", FullName: "X"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
}

func TestAuthService_SignInAndSignOut(t *testing.T) {
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	stored := &domain.Profile{ID: "u1", Email: "maria@example.com", FullName: "Maria", Role: domain.RoleClient, PasswordHash: hash}
	repo := &mockProfileRepo{
		findByEmailFn: func(_ context.Context, email string) (*domain.Profile, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, domain.ErrNotFound
		},
		findByIDFn: func(_ context.Context, id string) (*domain.Profile, error) {
			if id == stored.ID {
				return stored, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	rev := &memRevoker{ids: map[string]time.Duration{}}
	svc, j := newAuthService(repo, rev)
	ctx := context.Background()

	_, err = svc.SignIn(ctx, "maria@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	res, err := svc.SignIn(ctx, " MARIA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	require.NotEmpty(t, res.Token)

	claims, err := j.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "client", claims.Role)

	me, err := svc.CurrentUser(ctx, domain.Actor{ID: claims.UID, Role: domain.Role(claims.Role)})
	require.NoError(t, err)
	assert.Equal(t, "Maria", me.FullName)

	require.NoError(t, svc.SignOut(ctx, claims))
	assert.Contains(t, rev.ids, claims.ID)
	assert.Positive(t, rev.ids[claims.ID])

	v := &auth.Verifier{JWT: j, Revoker: rev}
	_, err = v.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, auth.ErrRevoked)
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc, _ := newAuthService(&mockProfileRepo{}, nil)
	_, err := svc.CurrentUser(context.Background(), domain.Actor{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	// profile 已删除
	_, err = svc.CurrentUser(context.Background(), domain.Actor{ID: "gone", Role: domain.RoleClient})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	assert.ErrorIs(t, svc.SignOut(context.Background(), nil), domain.ErrUnauthenticated)
}

// 登出的令牌在过期后的 Leeway 窗口内也必须保持失效
func TestAuthService_SignOutCoversLeeway(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	stored := &domain.Profile{ID: "u1", Email: "maria@example.com", FullName: "Maria", Role: domain.RoleClient, PasswordHash: hash}
	repo := &mockProfileRepo{findByEmailFn: func(context.Context, string) (*domain.Profile, error) { return stored, nil }}

	now := time.Now()
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Minute, Now: func() time.Time { return now }}
	rev := c.Revocations()
	svc := NewAuthService(repo, j, rev, AuthOptions{}, zap.NewNop())
	v := &auth.Verifier{JWT: j, Revoker: rev}
	ctx := context.Background()

	res, err := svc.SignIn(ctx, stored.Email, "secret1")
	require.NoError(t, err)
	claims, err := v.Verify(ctx, res.Token)
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, claims))

	// exp = 60s，Leeway 内的 70s 处
	now = now.Add(70 * time.Second)
	mr.FastForward(70 * time.Second)
	_, err = v.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, auth.ErrRevoked)

	// 过期后、Leeway 内再登出同样生效
	res2, err := svc.SignIn(ctx, stored.Email, "secret1")
	require.NoError(t, err)
	claims2, err := v.Verify(ctx, res2.Token)
	require.NoError(t, err)
	now = now.Add(90 * time.Second)
	mr.FastForward(90 * time.Second)
	require.NoError(t, svc.SignOut(ctx, claims2))
	_, err = v.Verify(ctx, res2.Token)
	assert.ErrorIs(t, err, auth.ErrRevoked)
}
