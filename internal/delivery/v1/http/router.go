package http

import (
	_ "github.com/DRSN-tech/medstore-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(
	prUC usecase.ProductUC,
	authUC usecase.AuthUC,
	userUC usecase.UserUC,
	orderUC usecase.OrderUC,
	importUC usecase.ImportUC,
	auth *AuthMiddleware,
) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerAuthRoutes(v1, NewAuthHandler(authUC, r.logger), auth)
		registerProductRoutes(v1, NewProductHandler(prUC, r.logger), NewImportHandler(importUC, r.logger), auth)
		registerOrderRoutes(v1, NewOrderHandler(orderUC, r.logger), auth)
		registerUserRoutes(v1, NewUserHandler(userUC, r.logger), auth)
	})
}

func registerAuthRoutes(router chi.Router, h *AuthHandler, auth *AuthMiddleware) {
	router.Route("/auth", func(a chi.Router) {
		a.Post("/register", h.register)
		a.Post("/login", h.login)

		a.Group(func(priv chi.Router) {
			priv.Use(auth.RequireAuth)
			priv.Get("/me", h.me)
			priv.Put("/me", h.updateProfile)
			priv.Put("/me/password", h.changePassword)
		})
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler, imp *ImportHandler, auth *AuthMiddleware) {
	router.Route("/products", func(pr chi.Router) {
		// Каталог открыт без авторизации
		pr.Get("/", h.listProducts)
		pr.Get("/categories", h.listCategories)
		pr.Get("/racks", h.listRacks)
		pr.Get("/{id}", h.getProduct)

		pr.Group(func(priv chi.Router) {
			priv.Use(auth.RequireAuth)
			priv.Post("/", h.createProduct)
			priv.Put("/{id}", h.updateProduct)
			priv.Delete("/{id}", h.deleteProduct)
			priv.Post("/import", imp.importProducts)
			priv.Get("/import/template", imp.template)
		})
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler, auth *AuthMiddleware) {
	router.Route("/orders", func(or chi.Router) {
		or.Use(auth.RequireAuth)
		or.Post("/", h.placeOrder)
		or.Get("/", h.listOrders)
		or.Get("/stats", h.stats)
		or.Get("/{id}", h.getOrder)
		or.Put("/{id}/status", h.updateStatus)
		or.Delete("/{id}", h.deleteOrder)
	})
}

func registerUserRoutes(router chi.Router, h *UserHandler, auth *AuthMiddleware) {
	router.Route("/users", func(us chi.Router) {
		us.Use(auth.RequireAuth)
		us.Get("/", h.listUsers)
		us.Get("/{id}", h.getUser)
		us.Put("/{id}", h.updateUser)
		us.Put("/{id}/password", h.resetPassword)
		us.Delete("/{id}", h.deleteUser)
	})
}
