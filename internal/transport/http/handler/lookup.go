package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techgarantias/internal/domain"
	"techgarantias/internal/service"
	httpez "techgarantias/internal/transport/http/ez"
)

// LookupModule 公开查询，无需登录
type LookupModule struct {
	svc *service.WarrantyService
	log *zap.Logger
}

func NewLookupModule(svc *service.WarrantyService, l *zap.Logger) *LookupModule {
	return &LookupModule{svc: svc, log: l}
}

func (m *LookupModule) Priority() int { return 20 }

func (m *LookupModule) MountAPI(api *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(api, m.log), httpez.Action[struct{}, *domain.PublicWarranty]{
		Method: http.MethodGet,
		Path:   "/lookup/:number",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.PublicWarranty, error) {
			return m.svc.Lookup(c.Request.Context(), c.Param("number"))
		},
	})
}
