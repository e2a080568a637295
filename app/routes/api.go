// Package routes registers the HTTP API.
package routes

import (
	"github.com/shashiranjanraj/roastery/app/controllers"
	"github.com/shashiranjanraj/roastery/app/repositories"
	"github.com/shashiranjanraj/roastery/app/services"
	"github.com/shashiranjanraj/roastery/pkg/middleware"
	"github.com/shashiranjanraj/roastery/pkg/router"
	"github.com/shashiranjanraj/roastery/pkg/storage"
)

// RegisterAPI wires every endpoint. The asset store is shared by all
// workflows so they enforce the same acceptance rules and concurrency bound.
func RegisterAPI(r *router.Router, assets *storage.Assets) {
	userRepo := repositories.NewUserRepository()
	productRepo := repositories.NewProductRepository()

	authController := controllers.NewAuthController(services.NewAuthService(userRepo, assets))
	userController := controllers.NewUserController(services.NewUserService(userRepo, assets))
	productController := controllers.NewProductController(services.NewProductService(productRepo, assets))

	api := r.Group("/api")

	api.Post("/signup", "auth.signup", authController.Signup)
	api.Post("/signin", "auth.signin", authController.Signin)
	api.Post("/forget-password", "auth.forget_password", authController.ForgetPassword)

	api.Post("/create-product", "products.create", productController.Create)
	api.Get("/productlist", "products.list", productController.List)
	api.Get("/product/{id}", "products.show", productController.Get)
	api.Put("/product-update/{id}", "products.update", productController.Update)
	api.Delete("/product-delete/{id}", "products.delete", productController.Delete)
	api.Patch("/product-restore/{id}", "products.restore", productController.Restore)

	protected := api.Group("", middleware.Auth)
	protected.Get("/profile-details", "users.profile", userController.Profile)
	protected.Get("/users", "users.list", userController.List)
	protected.Get("/edit", "users.edit", userController.Edit)
	protected.Post("/update", "users.update", userController.Update)
	protected.Get("/delete", "users.delete", userController.Delete)
}
