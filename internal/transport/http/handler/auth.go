package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techgarantias/internal/domain"
	"techgarantias/internal/service"
	httpez "techgarantias/internal/transport/http/ez"
	mdw "techgarantias/internal/transport/http/middleware"
)

// AuthModule /auth/* 与 /me
type AuthModule struct {
	svc     *service.AuthService
	require gin.HandlerFunc
	log     *zap.Logger
}

// NewAuthModule require 为登录校验中间件（mdw.AuthJWT）
func NewAuthModule(svc *service.AuthService, require gin.HandlerFunc, l *zap.Logger) *AuthModule {
	return &AuthModule{svc: svc, require: require, log: l}
}

func (m *AuthModule) Priority() int { return 10 }

type signInIn struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (m *AuthModule) MountAPI(api *gin.RouterGroup) {
	pub := httpez.New(api, m.log)

	httpez.RegisterAction(pub, httpez.Action[domain.SignUpInput, *domain.Profile]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.SignUpInput) (*domain.Profile, error) {
			return m.svc.SignUp(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction(pub, httpez.Action[signInIn, *service.SignInResult]{
		Method: http.MethodPost,
		Path:   "/auth/signin",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *signInIn) (*service.SignInResult, error) {
			return m.svc.SignIn(c.Request.Context(), in.Email, in.Password)
		},
	})

	authed := httpez.New(api.Group("", m.require), m.log)

	httpez.RegisterAction(authed, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/signout",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := m.svc.SignOut(c.Request.Context(), mdw.Claims(c)); err != nil {
				return nil, err
			}
			return gin.H{"signedOut": true}, nil
		},
	})

	httpez.RegisterAction(authed, httpez.Action[struct{}, *domain.Profile]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Profile, error) {
			return m.svc.CurrentUser(c.Request.Context(), mdw.Actor(c))
		},
	})
}
