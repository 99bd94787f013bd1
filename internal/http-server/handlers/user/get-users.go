package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"WhatsEase/entity"
	"WhatsEase/internal/lib/api/cont"
	"WhatsEase/internal/lib/api/response"
)

// GetUsers returns the inbox rows for the current user: every other
// registered user plus the bot, each with its unread count.
func GetUsers(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := cont.GetUser(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Unauthorized"))
			return
		}

		entries, err := handler.GetInbox(current.Email)
		if err != nil {
			log.Error("failed to get inbox", slog.String("user", current.Email), slog.Any("error", err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to get users"))
			return
		}

		if entries == nil {
			entries = []entity.InboxEntry{}
		}

		render.JSON(w, r, response.Ok(entries))
	}
}
