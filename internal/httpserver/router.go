package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/simple_shop/internal/db"
	"github.com/Skotchmaster/simple_shop/internal/logging"
	authmw "github.com/Skotchmaster/simple_shop/internal/middleware/auth"
	"github.com/Skotchmaster/simple_shop/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/simple_shop/internal/middleware/logging"
)

type Deps struct {
	DB     *gorm.DB
	Logger *slog.Logger

	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	AuthMiddleware *authmw.Middleware

	CSRFEnabled  bool
	CookieSecure bool
}

const welcome = "Welcome to my Index Page!"

// New builds the echo instance with the common middleware chain and all
// routes registered.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID(), loggingmw.RequestLogger(logger), middleware.Recover())
	if d.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			Secure:    d.CookieSecure,
			SkipPaths: []string{"/login", "/register", "/refresh"},
		}))
	}

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, welcome) })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx, d.DB); err != nil {
			logging.FromContext(ctx).Error("readiness_failed", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	requireAuth := d.AuthMiddleware.RequireAuth

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)
	e.POST("/logout", d.AuthHandler.LogOut, requireAuth)

	products := e.Group("/api/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.POST("/add", d.CatalogHandler.CreateProduct, requireAuth)
	products.GET("/:id", d.CatalogHandler.GetProduct, requireAuth)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct, requireAuth)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, requireAuth)

	cart := e.Group("/api/cart", requireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add/:product_id", d.CartHandler.AddToCart)
	cart.DELETE("/remove/:product_id", d.CartHandler.RemoveFromCart)
	cart.POST("/checkout", d.CartHandler.Checkout)
}
