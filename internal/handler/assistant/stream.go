package assistant

import (
	"net/http"
	"strings"

	"github.com/zhouzirui/z-style/backend/pkg/utils"
)

// handleChatStream answers a chat message as Server-Sent Events: a "route"
// event as soon as the persona is chosen, then "reply" and "done".
func (h *Handler) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	sse, err := utils.NewSSEWriter(w)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := sse.Event("route", h.assistant.RouteMessage(payload.Message)); err != nil {
		h.log.Warn().Err(err).Msg("failed to send route event")
		return
	}

	reply := h.assistant.Chat(r.Context(), payload.Message, payload.Context)
	if err := sse.Event("reply", reply); err != nil {
		h.log.Warn().Err(err).Msg("failed to send reply event")
		return
	}
	if err := sse.Event("done", map[string]bool{"finished": true}); err != nil {
		h.log.Debug().Err(err).Msg("failed to send done event")
	}
}
