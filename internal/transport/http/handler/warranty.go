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

// WarrantyModule 客户端 /warranties 与管理端 /warranties
type WarrantyModule struct {
	svc     *service.WarrantyService
	require gin.HandlerFunc
	log     *zap.Logger
}

// NewWarrantyModule require 仅用于 API 侧；管理端分组已自带 admin 鉴权
func NewWarrantyModule(svc *service.WarrantyService, require gin.HandlerFunc, l *zap.Logger) *WarrantyModule {
	return &WarrantyModule{svc: svc, require: require, log: l}
}

func (m *WarrantyModule) Priority() int { return 30 }

type listQuery struct {
	Status string `form:"status"`
	Q      string `form:"q"`
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=0"`
}

func (q *listQuery) parse() (domain.Filter, domain.Page, error) {
	f, err := domain.ParseFilter(q.Status, q.Q)
	if err != nil {
		return domain.Filter{}, domain.Page{}, err
	}
	return f, domain.Page{Offset: q.Offset, Limit: q.Limit}, nil
}

type statusIn struct {
	Status string `json:"status" binding:"required"`
}

func (m *WarrantyModule) MountAPI(api *gin.RouterGroup) {
	e := httpez.New(api.Group("", m.require), m.log)

	httpez.RegisterAction(e, httpez.Action[domain.CreateWarrantyInput, *domain.Warranty]{
		Method: http.MethodPost,
		Path:   "/warranties",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *domain.CreateWarrantyInput) (*domain.Warranty, error) {
			return m.svc.Create(c.Request.Context(), mdw.Actor(c), *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[listQuery, domain.WarrantyList]{
		Method: http.MethodGet,
		Path:   "/warranties",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQuery) (domain.WarrantyList, error) {
			f, p, err := in.parse()
			if err != nil {
				return domain.WarrantyList{}, err
			}
			return m.svc.ListMine(c.Request.Context(), mdw.Actor(c), f, p)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, domain.Stats]{
		Method: http.MethodGet,
		Path:   "/warranties/stats",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Stats, error) {
			return m.svc.Stats(c.Request.Context(), mdw.Actor(c), false)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.Warranty]{
		Method: http.MethodGet,
		Path:   "/warranties/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Warranty, error) {
			return m.svc.Get(c.Request.Context(), mdw.Actor(c), c.Param("id"))
		},
	})
}

func (m *WarrantyModule) MountAdmin(admin *gin.RouterGroup) {
	e := httpez.New(admin, m.log)
	roles := []string{string(domain.RoleAdmin)}

	httpez.RegisterAction(e, httpez.Action[listQuery, domain.WarrantyList]{
		Method: http.MethodGet,
		Path:   "/warranties",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  roles,
		Handler: func(c *gin.Context, in *listQuery) (domain.WarrantyList, error) {
			f, p, err := in.parse()
			if err != nil {
				return domain.WarrantyList{}, err
			}
			return m.svc.ListAll(c.Request.Context(), mdw.Actor(c), f, p)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, domain.Stats]{
		Method: http.MethodGet,
		Path:   "/warranties/stats",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  roles,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Stats, error) {
			return m.svc.Stats(c.Request.Context(), mdw.Actor(c), true)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.Warranty]{
		Method: http.MethodGet,
		Path:   "/warranties/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  roles,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Warranty, error) {
			return m.svc.Get(c.Request.Context(), mdw.Actor(c), c.Param("id"))
		},
	})

	httpez.RegisterAction(e, httpez.Action[statusIn, *domain.Warranty]{
		Method: http.MethodPost,
		Path:   "/warranties/:id/status",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  roles,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Warranty, error) {
			st, err := domain.ParseStatus(in.Status)
			if err != nil {
				return nil, err
			}
			return m.svc.SetStatus(c.Request.Context(), mdw.Actor(c), c.Param("id"), st)
		},
	})
}
