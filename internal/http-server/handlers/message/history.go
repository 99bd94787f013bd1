package message

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"WhatsEase/entity"
	"WhatsEase/internal/lib/api/cont"
	"WhatsEase/internal/lib/api/response"
)

// History returns the full two-way conversation with a peer, oldest
// first. Reconnecting clients catch up on missed messages here; there
// is no retroactive realtime emit.
func History(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := cont.GetUser(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Unauthorized"))
			return
		}

		peer := r.URL.Query().Get("peer")
		if peer == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("peer is required"))
			return
		}

		messages, err := handler.GetConversation(current.Email, peer)
		if err != nil {
			log.Error("failed to get conversation",
				slog.String("user", current.Email),
				slog.String("peer", peer),
				slog.Any("error", err),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to get messages"))
			return
		}

		if messages == nil {
			messages = []entity.Message{}
		}

		render.JSON(w, r, response.Ok(messages))
	}
}
