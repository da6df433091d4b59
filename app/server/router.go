package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mytheresa/go-shop-orders/app/api"
	"github.com/mytheresa/go-shop-orders/app/catalog"
	"github.com/mytheresa/go-shop-orders/app/categories"
	"github.com/mytheresa/go-shop-orders/app/customers"
	"github.com/mytheresa/go-shop-orders/app/media"
	"github.com/mytheresa/go-shop-orders/app/orders"
	"github.com/mytheresa/go-shop-orders/models"
	"gorm.io/gorm"
)

// NewRouter wires the repositories and handlers onto one chi router.
func NewRouter(db *gorm.DB, store *media.Storage) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			api.RespondWithError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		api.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	categoryHandler := categories.NewCategoryHandler(models.NewCategoriesRepository(db), store)
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.HandleGetAll)
		r.Post("/", categoryHandler.HandleCreate)
		r.Delete("/{id}", categoryHandler.HandleDelete)
		r.Put("/{id}/image", categoryHandler.HandleUploadImage)
	})

	catalogHandler := catalog.NewCatalogHandler(models.NewProductsRepository(db), store)
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", catalogHandler.HandleGet)
		r.Post("/", catalogHandler.HandleCreate)
		r.Get("/{id}", catalogHandler.HandleGetProduct)
		r.Put("/{id}", catalogHandler.HandleUpdate)
		r.Delete("/{id}", catalogHandler.HandleDelete)
		r.Put("/{id}/image", catalogHandler.HandleUploadImage)
	})

	customerHandler := customers.NewCustomerHandler(models.NewCustomersRepository(db))
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", customerHandler.HandleGetAll)
		r.Post("/", customerHandler.HandleCreate)
	})

	orderHandler := orders.NewOrderHandler(models.NewOrdersRepository(db))
	r.Get("/order-statuses", orderHandler.HandleStatuses)
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", orderHandler.HandleList)
		r.Post("/", orderHandler.HandleCreate)
		r.Get("/{id}", orderHandler.HandleGet)
		r.Delete("/{id}", orderHandler.HandleDelete)
		r.Patch("/{id}/status", orderHandler.HandleUpdateStatus)
		r.Post("/{id}/items", orderHandler.HandleAddItem)
		r.Put("/{id}/items/{itemID}", orderHandler.HandleUpdateItem)
		r.Delete("/{id}/items/{itemID}", orderHandler.HandleRemoveItem)
	})

	r.Handle("/media/*", http.StripPrefix("/media/", store.Handler()))

	return r
}
