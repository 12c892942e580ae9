package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/z-style/backend/internal/handler/assistant"
	"github.com/zhouzirui/z-style/backend/internal/handler/inventory"
	"github.com/zhouzirui/z-style/backend/internal/handler/persona"
	middlewarePkg "github.com/zhouzirui/z-style/backend/internal/middleware"
	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	assistantService "github.com/zhouzirui/z-style/backend/internal/service/assistant"
	auditService "github.com/zhouzirui/z-style/backend/internal/service/audit"
	inventoryService "github.com/zhouzirui/z-style/backend/internal/service/inventory"
	"github.com/zhouzirui/z-style/backend/pkg/utils"
)

// Dependencies are the services shared by all request handlers.
type Dependencies struct {
	Products  catalog.Store
	Inventory *inventoryService.Service
	Assistant *assistantService.Service
	Audit     *auditService.Service
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api", func(api chi.Router) {
		if deps.Products != nil && deps.Inventory != nil {
			inventory.New(deps.Products, deps.Inventory).RegisterRoutes(api)
		}

		if deps.Assistant != nil {
			persona.New(deps.Assistant.Personas()).RegisterRoutes(api)
			assistant.New(deps.Assistant, deps.Products, deps.Audit).RegisterRoutes(api)
		} else {
			api.HandleFunc("/assistant/*", func(w http.ResponseWriter, r *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "assistant unavailable")
			})
		}
	})

	return r
}
