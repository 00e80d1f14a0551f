package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"techgarantias/internal/core/auth"
	"techgarantias/internal/domain"
	"techgarantias/pkg/utils"
)

type AuthOptions struct {
	AdminEmails    []string
	MinPasswordLen int
}

// AuthService 身份服务：注册 / 登录 / 登出 / 当前用户
type AuthService struct {
	profiles    domain.ProfileRepository
	jwt         *auth.JWTer
	revoker     auth.Revoker
	adminEmails map[string]struct{}
	minPassword int
	log         *zap.Logger
}

func NewAuthService(profiles domain.ProfileRepository, jwter *auth.JWTer, revoker auth.Revoker, opts AuthOptions, log *zap.Logger) *AuthService {
	admins := make(map[string]struct{}, len(opts.AdminEmails))
	for _, e := range opts.AdminEmails {
		admins[domain.NormalizeEmail(e)] = struct{}{}
	}
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	if opts.MinPasswordLen <= 0 {
		opts.MinPasswordLen = 6
	}
	return &AuthService{
		profiles:    profiles,
		jwt:         jwter,
		revoker:     revoker,
		adminEmails: admins,
		minPassword: opts.MinPasswordLen,
		log:         log,
	}
}

type SignInResult struct {
	auth.Session
	User *domain.Profile `json:"user"`
}

// roleFor 邮箱未经验证，管理员名单只用于引导第一个管理员；已有管理员后一律按客户注册
func (s *AuthService) roleFor(ctx context.Context, email string) (domain.Role, error) {
	if _, ok := s.adminEmails[email]; !ok {
		return domain.RoleClient, nil
	}
	has, err := s.profiles.HasAdmin(ctx)
	if err != nil {
		return "", err
	}
	if has {
		s.log.Warn("admin already bootstrapped, registering as client", zap.String("email", email))
		return domain.RoleClient, nil
	}
	return domain.RoleAdmin, nil
}

func (s *AuthService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.Profile, error) {
	in.Normalize()
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	if len(in.Password) < s.minPassword {
		return nil, domain.Invalid("password", fmt.Sprintf("must be at least %d characters", s.minPassword))
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	p := in.Profile()
	p.ID = utils.NewID()
	if p.Role, err = s.roleFor(ctx, p.Email); err != nil {
		return nil, err
	}
	p.PasswordHash = hash
	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Invalid("email", "already registered")
		}
		return nil, err
	}
	s.log.Info("profile created", zap.String("profile_id", p.ID), zap.String("role", string(p.Role)))
	return p, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	p, err := s.profiles.FindByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		signIns.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		signIns.WithLabelValues("error").Inc()
		return nil, err
	}
	if !utils.CheckPassword(password, p.PasswordHash) {
		signIns.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	sess, err := s.jwt.Issue(p.ID, p.Email, string(p.Role))
	if err != nil {
		signIns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}
	signIns.WithLabelValues("ok").Inc()
	return &SignInResult{Session: sess, User: p}, nil
}

// SignOut 吊销当前令牌直到其自然过期
func (s *AuthService) SignOut(ctx context.Context, c *auth.Claims) error {
	if c == nil {
		return domain.ErrUnauthenticated
	}
	ttl := s.jwt.Remaining(c)
	if err := s.revoker.Revoke(ctx, c.ID, ttl); err != nil {
		return domain.StoreFailure("revoke token", err)
	}
	return nil
}

// CurrentUser 令牌对应的 profile；profile 已不存在视为未登录
func (s *AuthService) CurrentUser(ctx context.Context, a domain.Actor) (*domain.Profile, error) {
	if !a.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	p, err := s.profiles.FindByID(ctx, a.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	return p, err
}
