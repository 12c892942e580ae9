package assistant

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	assistantService "github.com/zhouzirui/z-style/backend/internal/service/assistant"
	"github.com/zhouzirui/z-style/backend/internal/service/audit"
	"github.com/zhouzirui/z-style/backend/pkg/logger"
	"github.com/zhouzirui/z-style/backend/pkg/utils"
)

const (
	defaultTurnLimit = 50
	maxStylistItems  = 10
)

// Handler 购物助手的HTTP与WebSocket处理器
type Handler struct {
	assistant *assistantService.Service
	products  catalog.Store
	turns     *audit.Service
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

// New 创建助手处理器。turns 可以为空。
func New(assistant *assistantService.Service, products catalog.Store, turns *audit.Service) *Handler {
	return &Handler{
		assistant: assistant,
		products:  products,
		turns:     turns,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: logger.Component("websocket"),
	}
}

// RegisterRoutes 注册助手相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assistant", func(r chi.Router) {
		r.Post("/chat", h.handleChat)
		r.Post("/chat/stream", h.handleChatStream)
		r.Post("/suggestions", h.handleSuggestions)
		r.Post("/stylist-suggestions", h.handleStylistSuggestions)
		r.Get("/route", h.handleRoute)
		r.Get("/turns", h.handleTurns)
		r.Get("/ws", h.handleWebSocket)
	})
}

type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

type suggestionsRequest struct {
	Context string `json:"context"`
}

type stylistRequest struct {
	SKUs     []string `json:"skus"`
	Occasion string   `json:"occasion"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := h.assistant.Chat(r.Context(), payload.Message, payload.Context)
	utils.RespondJSON(w, http.StatusOK, reply)
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var payload suggestionsRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.assistant.GenerateSuggestions(r.Context(), payload.Context))
}

func (h *Handler) handleStylistSuggestions(w http.ResponseWriter, r *http.Request) {
	var payload stylistRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(payload.SKUs) > maxStylistItems {
		utils.RespondError(w, http.StatusBadRequest, "too many items selected")
		return
	}

	items := h.resolveItems(r.Context(), payload.SKUs)
	utils.RespondJSON(w, http.StatusOK, h.assistant.StylistSuggestions(r.Context(), items, payload.Occasion))
}

func (h *Handler) handleRoute(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if strings.TrimSpace(message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.assistant.RouteMessage(message))
}

func (h *Handler) handleTurns(w http.ResponseWriter, r *http.Request) {
	if h.turns == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "audit log unavailable")
		return
	}
	limit := utils.QueryInt(r, "limit", defaultTurnLimit)
	utils.RespondJSON(w, http.StatusOK, map[string]any{"turns": h.turns.List(r.Context(), limit)})
}

// resolveItems looks up the selected SKUs, skipping unknown ones.
func (h *Handler) resolveItems(ctx context.Context, skus []string) []catalog.Product {
	items := make([]catalog.Product, 0, len(skus))
	if h.products == nil {
		return items
	}
	for _, sku := range skus {
		p, ok, err := h.products.Get(ctx, sku)
		if err != nil {
			h.log.Warn().Err(err).Str("sku", sku).Msg("resolve stylist item")
			continue
		}
		if ok {
			items = append(items, p)
		}
	}
	return items
}
