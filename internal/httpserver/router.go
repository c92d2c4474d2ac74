package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/openmart/shop_backend/internal/middleware/auth"
)

type Deps struct {
	Auth    *AuthHTTP
	Product *ProductHTTP
	Search  *SearchHTTP
	Gate    *mwauth.Gate
}

func Register(e *echo.Echo, d Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	api := e.Group("/api/v1")

	user := api.Group("/user")
	user.POST("/signup", d.Auth.Signup)
	user.POST("/signin", d.Auth.Signin)
	user.POST("/admin-signup", d.Auth.AdminSignup)
	user.POST("/admin-login", d.Auth.AdminLogin)
	user.POST("/refresh-token", d.Auth.RefreshToken)
	user.POST("/logout", d.Auth.Logout, d.Gate.RequireAuth)

	item := api.Group("/item")
	item.POST("/add-products", d.Product.CreateProduct, d.Gate.RequireAuth)
	item.GET("/product-details", d.Product.GetProducts)
	item.GET("/item-details/:id", d.Product.GetProduct, d.Gate.RequireAuth)
	item.PUT("/update-products/:id", d.Product.UpdateProduct, d.Gate.RequireAuth)
	item.DELETE("/delete-products/:id", d.Product.DeleteProduct, d.Gate.RequireAuth)
	item.GET("/search", d.Search.Search)
}
