package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/portalbase/portal-api/internal/config"
	pkgmdw "github.com/portalbase/portal-api/internal/server/middleware"
	"github.com/portalbase/portal-api/internal/usecase"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	sessions *usecase.SessionUsecase,
	auth AuthController,
	accounts AccountController,
	health HealthController,
) {
	e := echo.New()
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(logger.MustNamed("http"))

	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
		RequestBody: func(c echo.Context) bool {
			// OTP codes must not end up in logs
			uri := c.Request().RequestURI
			return uri != "/api/v1/auth/verify-otp"
		},
		KeyAndValues: func(c echo.Context) []any {
			args := make([]any, 0, 2)
			if c.Get("user_id") != nil {
				args = append(args, "user_id", c.Get("user_id"))
			}
			return args
		},
	}

	e.Use(pkgmdw.CORS(regexp.MustCompile(conf.Server.CORSPattern)))
	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	e.GET("/health", health.Health)

	api := e.Group("/api/v1/auth")
	api.POST("/send-otp", auth.SendOtp)
	api.POST("/verify-otp", auth.VerifyOtp)
	api.GET("/verify-invitation", auth.VerifyInvitation)

	protected := api.Group("", pkgmdw.JWTAuth(sessions))
	protected.POST("/logout", auth.Logout)
	protected.POST("/create-profile/:userId", accounts.CreateProfile)
	protected.PUT("/update-profile/:userId/:profileId", accounts.UpdateProfile)
	protected.POST("/merge-profiles/:userId", accounts.MergeProfiles)
	protected.POST("/switch-account/:userId", accounts.SwitchAccount)
	protected.GET("/get-accounts/:userId", accounts.GetAccounts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
