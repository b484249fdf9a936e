package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"bazar/m/internal/service"
)

type ctxKey string

const ctxClaims ctxKey = "claims"

// Services are the business services the HTTP layer delegates to.
type Services struct {
	Products  *service.ProductService
	Customers *service.CustomerService
	Sales     *service.SaleService
	Auth      *service.AuthService
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	products          *service.ProductService
	customers         *service.CustomerService
	sales             *service.SaleService
	auth              *service.AuthService
	secret            string
	lowStockThreshold int64
	logger            *zap.Logger
}

// New constructs a Handler.
func New(svc Services, secret string, lowStockThreshold int64, logger *zap.Logger) *Handler {
	return &Handler{
		products:          svc.Products,
		customers:         svc.Customers,
		sales:             svc.Sales,
		auth:              svc.Auth,
		secret:            secret,
		lowStockThreshold: lowStockThreshold,
		logger:            logger,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
			protected.Post("/users", h.createUser)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/products", func(r chi.Router) {
			r.Post("/", h.createProduct)
			r.Get("/", h.listProducts)
			r.Get("/low-stock", h.lowStockProducts)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Post("/{id}/restock", h.restockProduct)
			r.Delete("/{id}", h.deleteProduct)
		})

		pr.Route("/customers", func(r chi.Router) {
			r.Post("/", h.createCustomer)
			r.Get("/", h.listCustomers)
			r.Get("/dni/{dni}", h.getCustomerByDNI)
			r.Get("/{id}", h.getCustomer)
			r.Put("/{id}", h.updateCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})

		pr.Route("/sales", func(r chi.Router) {
			r.Post("/", h.createSale)
			r.Get("/", h.listSales)
			r.Get("/highest", h.highestSale)
			r.Get("/date/{date}", h.salesOnDate)
			r.Get("/date/{date}/summary", h.dailySummary)
			r.Get("/{id}", h.getSale)
			r.Get("/{id}/products", h.saleProducts)
			r.Delete("/{id}", h.deleteSale)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			h.logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// respondServiceError maps service errors onto HTTP statuses. Anything
// unrecognised is logged and hidden behind fallback.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrSaleNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrDuplicateDNI),
		errors.Is(err, service.ErrProductInUse),
		errors.Is(err, service.ErrCustomerHasSales),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrDuplicateRequest):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.Error(fallback,
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// Helpers
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON reads exactly one JSON value and rejects unknown fields.
func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if decoder.More() {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"unable to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

type errorResponse struct {
	Error string `json:"error"`
}
