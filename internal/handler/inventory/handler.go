package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	inventoryService "github.com/zhouzirui/z-style/backend/internal/service/inventory"
	"github.com/zhouzirui/z-style/backend/pkg/utils"
)

// Handler 商品与库存的HTTP处理器
type Handler struct {
	products catalog.Store
	advisor  *inventoryService.Service
}

// New 创建库存处理器
func New(products catalog.Store, advisor *inventoryService.Service) *Handler {
	return &Handler{
		products: products,
		advisor:  advisor,
	}
}

// RegisterRoutes 注册商品与库存相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.handleListProducts)
	r.Get("/products/{sku}", h.handleGetProduct)

	r.Route("/inventory/{sku}", func(r chi.Router) {
		r.Get("/status", h.handleStockStatus)
		r.Get("/substitutes", h.handleSubstitutes)
		r.Post("/reserve", h.handleReserve)
	})
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.products.List(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "catalog unavailable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	product, ok, err := h.products.Get(r.Context(), sku)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "catalog unavailable")
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusNotFound, catalog.ErrProductNotFound.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, product)
}

func (h *Handler) handleStockStatus(w http.ResponseWriter, r *http.Request) {
	status := h.advisor.GetStockStatus(r.Context(), chi.URLParam(r, "sku"))
	utils.RespondJSON(w, http.StatusOK, status)
}

func (h *Handler) handleSubstitutes(w http.ResponseWriter, r *http.Request) {
	limit := utils.QueryInt(r, "limit", inventoryService.DefaultSubstituteLimit)
	items := h.advisor.FindSubstitutes(r.Context(), chi.URLParam(r, "sku"), limit)
	utils.RespondJSON(w, http.StatusOK, map[string]any{"substitutes": items})
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Quantity < 0 {
		utils.RespondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	sku := chi.URLParam(r, "sku")
	reserved := h.advisor.ReserveStock(r.Context(), sku, payload.Quantity)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reserved": reserved,
		"status":   h.advisor.GetStockStatus(r.Context(), sku),
	})
}
