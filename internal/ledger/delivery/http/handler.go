package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/dkaz/retail-ledger/internal/analytics"
	"github.com/dkaz/retail-ledger/internal/dashboard"
	"github.com/dkaz/retail-ledger/internal/ledger/domain"
	"github.com/dkaz/retail-ledger/internal/ledger/usecase/command"
	"github.com/dkaz/retail-ledger/internal/ledger/usecase/query"
	"github.com/dkaz/retail-ledger/pkg/logger"
)

// LedgerHandler handles HTTP requests for the inventory ledger
type LedgerHandler struct {
	addProduct    *command.AddProductHandler
	updateField   *command.UpdateFieldHandler
	consumeStock  *command.ConsumeStockHandler
	setStatus     *command.SetStatusHandler
	assignManager *command.AssignManagerHandler
	sellProduct   *command.SellProductHandler

	getProduct   *query.GetProductHandler
	listProducts *query.ListProductsHandler
	getStats     *query.GetStatsHandler

	refresher *dashboard.Refresher
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(repo domain.LedgerRepository, publisher command.EventPublisher, refresher *dashboard.Refresher) *LedgerHandler {
	return &LedgerHandler{
		addProduct:    command.NewAddProductHandler(repo),
		updateField:   command.NewUpdateFieldHandler(repo),
		consumeStock:  command.NewConsumeStockHandler(repo),
		setStatus:     command.NewSetStatusHandler(repo),
		assignManager: command.NewAssignManagerHandler(repo),
		sellProduct:   command.NewSellProductHandler(repo, publisher),
		getProduct:    query.NewGetProductHandler(repo),
		listProducts:  query.NewListProductsHandler(repo),
		getStats:      query.NewGetStatsHandler(repo),
		refresher:     refresher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AddProduct handles POST /api/products
func (h *LedgerHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		SKU      string  `json:"sku"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
		Expiry   string  `json:"expiry"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.addProduct.Handle(r.Context(), command.AddProductCommand{
		Name:     req.Name,
		SKU:      req.SKU,
		Quantity: req.Quantity,
		Price:    req.Price,
		Expiry:   req.Expiry,
	})
	if err != nil {
		respondError(w, r, err, "Failed to add product")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product added",
		Data:    product,
	})
}

// ListProducts handles GET /api/products
func (h *LedgerHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.listProducts.Handle(r.Context(), query.ListProductsQuery{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(w, r, err, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// GetProduct handles GET /api/products/{sku}
func (h *LedgerHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.getProduct.Handle(r.Context(), query.GetProductQuery{
		SKU: mux.Vars(r)["sku"],
	})
	if err != nil {
		respondError(w, r, err, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// UpdateField handles PATCH /api/products/{sku}
func (h *LedgerHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	change, err := h.updateField.Handle(r.Context(), command.UpdateFieldCommand{
		SKU:   mux.Vars(r)["sku"],
		Field: req.Field,
		Value: req.Value,
	})
	if err != nil {
		respondError(w, r, err, "Failed to update field")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Field updated",
		Data:    change,
	})
}

// ConsumeStock handles POST /api/products/{sku}/consume
func (h *LedgerHandler) ConsumeStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.consumeStock.Handle(r.Context(), command.ConsumeStockCommand{
		SKU:      mux.Vars(r)["sku"],
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(w, r, err, "Failed to consume stock")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock consumed",
		Data:    result,
	})
}

// SetStatus handles PUT /api/products/{sku}/status
func (h *LedgerHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	change, err := h.setStatus.Handle(r.Context(), command.SetStatusCommand{
		SKU:    mux.Vars(r)["sku"],
		Status: req.Status,
	})
	if err != nil {
		respondError(w, r, err, "Failed to set status")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Status updated",
		Data:    change,
	})
}

// AssignManager handles PUT /api/products/{sku}/manager
func (h *LedgerHandler) AssignManager(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Manager string `json:"manager"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	change, err := h.assignManager.Handle(r.Context(), command.AssignManagerCommand{
		SKU:     mux.Vars(r)["sku"],
		Manager: req.Manager,
	})
	if err != nil {
		respondError(w, r, err, "Failed to assign manager")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Manager assigned",
		Data:    change,
	})
}

// SellProduct handles POST /api/products/{sku}/sell
func (h *LedgerHandler) SellProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity  int     `json:"quantity"`
		SalePrice float64 `json:"sale_price"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	sale, err := h.sellProduct.Handle(r.Context(), command.SellProductCommand{
		SKU:       mux.Vars(r)["sku"],
		Quantity:  req.Quantity,
		SalePrice: req.SalePrice,
	})
	if err != nil {
		respondError(w, r, err, "Failed to sell product")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Sale recorded",
		Data:    sale,
	})
}

// GetStats handles GET /api/stats
func (h *LedgerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.getStats.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		respondError(w, r, err, "Failed to compute stats")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

// GetDashboard handles GET /api/dashboard, serving the last refresh cycle's
// aggregate rather than recomputing on demand.
func (h *LedgerHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	overview := h.refresher.Latest()
	if overview == nil {
		respondJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Dashboard not ready yet",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    overview,
	})
}

// AnalyticsReport handles POST /api/analytics/report: a CSV body of
// financial records plus period/from/to/categories query parameters.
func (h *LedgerHandler) AnalyticsReport(w http.ResponseWriter, r *http.Request) {
	period, err := analytics.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, r, err, "Invalid period")
		return
	}

	from, ok := parseDateParam(r.URL.Query().Get("from"))
	if !ok {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid from date"})
		return
	}
	to, ok := parseDateParam(r.URL.Query().Get("to"))
	if !ok {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid to date"})
		return
	}

	var categories []string
	if raw := r.URL.Query().Get("categories"); raw != "" {
		categories = strings.Split(raw, ",")
	}

	records, skipped, err := analytics.ParseRecords(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	filtered := analytics.FilterByDateRange(records, from, to)
	filtered = analytics.FilterByCategories(filtered, categories)
	series := analytics.ComputeTimeSeries(filtered, period)

	report := struct {
		Period        analytics.Period   `json:"period"`
		Imported      int                `json:"imported"`
		Skipped       int                `json:"skipped"`
		Totals        analytics.Totals   `json:"totals"`
		Series        []analytics.Bucket `json:"series"`
		ExpenseShares []analytics.Group  `json:"expense_shares"`
		RevenueGrowth float64            `json:"revenue_growth"`
	}{
		Period:        period,
		Imported:      len(records),
		Skipped:       skipped,
		Totals:        analytics.Summarize(filtered),
		Series:        series,
		ExpenseShares: analytics.DistributeExpenses(filtered),
		RevenueGrowth: analytics.ComputeGrowth(series, analytics.MetricRevenue),
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    report,
	})
}

// RegisterRoutes registers all ledger routes
func (h *LedgerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.ListProducts).Methods("GET")
	router.HandleFunc("/api/products", h.AddProduct).Methods("POST")
	router.HandleFunc("/api/products/{sku}", h.GetProduct).Methods("GET")
	router.HandleFunc("/api/products/{sku}", h.UpdateField).Methods("PATCH")
	router.HandleFunc("/api/products/{sku}/consume", h.ConsumeStock).Methods("POST")
	router.HandleFunc("/api/products/{sku}/status", h.SetStatus).Methods("PUT")
	router.HandleFunc("/api/products/{sku}/manager", h.AssignManager).Methods("PUT")
	router.HandleFunc("/api/products/{sku}/sell", h.SellProduct).Methods("POST")
	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")
	router.HandleFunc("/api/dashboard", h.GetDashboard).Methods("GET")
	router.HandleFunc("/api/analytics/report", h.AnalyticsReport).Methods("POST")
}

// RegisterHealthCheck registers health check endpoint
func (h *LedgerHandler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Ledger service is healthy",
		})
	}).Methods("GET")
}

func parseDateParam(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// respondError maps domain error kinds to HTTP statuses
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		stockErr      *domain.InsufficientStockError
	)

	status := http.StatusInternalServerError
	message := fallback
	switch {
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
		message = notFoundErr.Error()
	case errors.As(err, &stockErr):
		status = http.StatusConflict
		message = stockErr.Error()
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Error()
	default:
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg(fallback)
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
