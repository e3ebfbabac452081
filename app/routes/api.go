package routes

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/rsharma-dev/inventra/app/controllers"
	"github.com/rsharma-dev/inventra/app/graph"
	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/pkg/metrics"
	"github.com/rsharma-dev/inventra/pkg/middleware"
	"github.com/rsharma-dev/inventra/pkg/response"
	"github.com/rsharma-dev/inventra/pkg/router"
	"github.com/rsharma-dev/inventra/pkg/storage"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	Products  *controllers.ProductController
	Orders    *controllers.OrderController
	Activity  *controllers.ActivityController
	Analytics *controllers.AnalyticsController
	Users     *controllers.UserController
	Upload    *controllers.UploadController
	Schema    graphql.Schema
}

// RegisterAPI mounts the full route table.
func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api")

	api.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, map[string]string{"status": "OK"})
	})

	auth := api.Group("/auth")
	auth.Post("/register", "auth.register", c.Auth.Register)
	auth.Post("/login", "auth.login", c.Auth.Login)
	auth.Get("/profile", "auth.profile", c.Auth.Profile, middleware.Auth)

	products := api.Group("/products", middleware.Auth)
	products.Get("", "products.index", c.Products.Index)
	products.Post("", "products.store", c.Products.Store)
	products.Get("/{id}", "products.show", c.Products.Show)
	products.Put("/{id}", "products.update", c.Products.Update)
	products.Delete("/{id}", "products.destroy", c.Products.Destroy)

	orders := api.Group("/orders", middleware.Auth)
	orders.Get("", "orders.index", c.Orders.Index)
	orders.Post("", "orders.store", c.Orders.Store)
	orders.Get("/{id}", "orders.show", c.Orders.Show)
	orders.Put("/{id}", "orders.update", c.Orders.UpdateStatus)
	orders.Delete("/{id}", "orders.destroy", c.Orders.Destroy)

	activity := api.Group("/activity", middleware.Auth)
	activity.Get("", "activity.index", c.Activity.Index)
	activity.Get("/stream", "activity.stream", c.Activity.Stream)
	activity.Get("/user/{userId}", "activity.byUser", c.Activity.ByUser)

	analytics := api.Group("/analytics", middleware.Auth)
	analytics.Get("", "analytics.dashboard", c.Analytics.Dashboard)
	analytics.Get("/inventory", "analytics.inventory", c.Analytics.Inventory)

	users := api.Group("/users", middleware.Auth, middleware.RequireRole(models.RoleAdmin))
	users.Get("", "users.index", c.Users.Index)
	users.Get("/stats", "users.stats", c.Users.Stats)
	users.Get("/{id}", "users.show", c.Users.Show)
	users.Put("/{id}/role", "users.updateRole", c.Users.UpdateRole)
	users.Delete("/{id}", "users.destroy", c.Users.Destroy)

	api.Post("/upload", "upload.store", c.Upload.Store, middleware.Auth)
	api.Post("/graphql", "graphql", graph.Handler(c.Schema), middleware.Auth)

	r.HandleFunc("/metrics", metrics.Handler())

	// Uploaded images are served straight off disk when the local driver
	// is the default.
	if storage.DefaultIsLocal() {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(storage.LocalRoot())))
		r.HandleFunc("/uploads/*", fs.ServeHTTP)
	}
}
