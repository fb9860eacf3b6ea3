package webserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nexretail/nexpos/internal/app"
	"github.com/nexretail/nexpos/internal/domain"
	"github.com/nexretail/nexpos/pkg/common"
	"go.uber.org/zap"
)

// AppContextKey is the echo context key the application context is stored
// under for handlers that need database or settings access.
const AppContextKey = "nexpos_appctx"

var (
	server *echo.Echo
	appCtx app.AppContext
	apiGrp *echo.Group
)

type jsoniterSerializer struct{}

func (jsoniterSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsoniterSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsoniter.NewDecoder(c.Request().Body).Decode(i)
	if err != nil && err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

type customValidator struct {
	validate *validator.Validate
}

func (v *customValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init builds the echo instance around the application context. Routes are
// registered afterwards through the Api* helpers.
func Init(ctx app.AppContext) {
	appCtx = ctx
	server = echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.JSONSerializer = jsoniterSerializer{}
	server.Validator = &customValidator{validate: validator.New()}

	server.Use(middleware.Recover())
	server.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	})
	server.Use(oprLogMiddleware)

	server.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	apiGrp = server.Group("/api")
}

// oprLogMiddleware records every mutating API call in the operator action
// log. Reads are not logged.
func oprLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		method := c.Request().Method
		if method == http.MethodGet || !strings.HasPrefix(c.Request().URL.Path, "/api") {
			return err
		}

		operator := strings.TrimSpace(c.Request().Header.Get("X-Operator"))
		if operator == "" {
			operator = "admin"
		}
		appCtx.DB().Create(&domain.SysOprLog{
			ID:        common.UUIDint64(),
			OprName:   operator,
			OprIp:     c.RealIP(),
			OptAction: method + " " + c.Request().URL.Path,
			OptDesc:   fmt.Sprintf("status %d", c.Response().Status),
			OptTime:   time.Now(),
		})
		return err
	}
}

// AppCtx returns the application context bound at Init.
func AppCtx() app.AppContext {
	return appCtx
}

func ApiGET(path string, h echo.HandlerFunc)    { apiGrp.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { apiGrp.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { apiGrp.PUT(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { apiGrp.DELETE(path, h) }

// Start runs the HTTP listener. It blocks until the server stops.
func Start() error {
	cfg := appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.L().Info("starting web server", zap.String("listen", addr))
	err := server.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the listener down.
func Stop() {
	if server != nil {
		_ = server.Close()
	}
}

// Echo exposes the underlying instance (used in tests).
func Echo() *echo.Echo {
	return server
}
