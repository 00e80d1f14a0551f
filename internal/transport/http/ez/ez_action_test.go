package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techgarantias/internal/domain"
	mdw "techgarantias/internal/transport/http/middleware"
	resp "techgarantias/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.Invalid("value", "must be positive"), resp.CodeBadRequest},
		{domain.ErrInvalidCredentials, resp.CodeUnauthorized},
		{domain.ErrUnauthenticated, resp.CodeUnauthorized},
		{domain.ErrForbidden, resp.CodeForbidden},
		{domain.ErrNotFound, resp.CodeNotFound},
		{domain.ErrConflict, resp.CodeConflict},
		{domain.StoreFailure("op", errors.New("dial tcp: refused")), resp.CodeServerError},
		{BadRequest("missing id"), resp.CodeBadRequest},
		{domain.StoreFailure("allocate warranty number", domain.ErrConflict), resp.CodeServerError},
	}
	for _, tc := range cases {
		code, _ := Classify(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
	}

	_, msg := Classify(domain.StoreFailure("op", errors.New("dial tcp: refused")))
	assert.Equal(t, "internal error", msg)
	_, msg = Classify(domain.Invalid("value", "must be positive"))
	assert.Equal(t, "value: must be positive", msg)
}

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) resp.Resp {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	var r resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

func TestRegisterAction(t *testing.T) {
	r := gin.New()
	g := r.Group("", func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(mdw.KeyUserID, uid)
			c.Set(mdw.KeyRole, c.GetHeader("X-Test-Role"))
		}
	})
	e := New(g, zap.NewNop())
	RegisterAction(e, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(_ *gin.Context, in *echoIn) (gin.H, error) {
			if in.Name == "boom" {
				return nil, domain.StoreFailure("echo", errors.New("db down"))
			}
			return gin.H{"name": in.Name}, nil
		},
	})

	do := func(body, uid, role string) resp.Resp {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if uid != "" {
			req.Header.Set("X-Test-User", uid)
			req.Header.Set("X-Test-Role", role)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return decode(t, w)
	}

	assert.Equal(t, resp.CodeUnauthorized, do(`{"name":"x"}`, "", "").Code)
	assert.Equal(t, resp.CodeForbidden, do(`{"name":"x"}`, "u1", "client").Code)
	assert.Equal(t, resp.CodeBadRequest, do(`{}`, "u1", "admin").Code)

	out := do(`{"name":"x"}`, "u1", "admin")
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.Equal(t, map[string]any{"name": "x"}, out.Data)

	failed := do(`{"name":"boom"}`, "u1", "admin")
	assert.Equal(t, resp.CodeServerError, failed.Code)
	assert.Equal(t, "internal error", failed.Msg)
}
