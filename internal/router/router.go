package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"campusevents/internal/auth"
	"campusevents/internal/config"
	"campusevents/internal/handler"
	"campusevents/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	eventHandler *handler.EventHandler,
	regHandler *handler.RegistrationHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.GET("/events", eventHandler.List)

	// Secured routes (require a valid session token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/update-profile", authHandler.UpdateProfile)
	secured.POST("/auth/change-password", authHandler.ChangePassword)

	secured.POST("/registrations", regHandler.Register)
	secured.GET("/registrations/my-registrations", regHandler.MyRegistrations)
	secured.DELETE("/registrations/:id", regHandler.Cancel)

	// Admin routes
	admin := secured.Group("", RequireRole(model.RoleAdmin))

	admin.GET("/auth/students", authHandler.ListStudents)
	admin.POST("/auth/reset-user-password/:userId", authHandler.ResetUserPassword)

	admin.POST("/events", eventHandler.Create)
	admin.PUT("/events/:id", eventHandler.Update)
	admin.DELETE("/events/:id", eventHandler.Delete)
	admin.PATCH("/events/:id/end", eventHandler.End)

	admin.GET("/registrations/event/:id", regHandler.EventRoster)
	admin.GET("/registrations/all", regHandler.All)
}

// RequireRole gates a route group on an exact role match. There is no role
// hierarchy: the claim must equal the required role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
