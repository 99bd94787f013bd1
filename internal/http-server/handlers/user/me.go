package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"WhatsEase/internal/lib/api/cont"
	"WhatsEase/internal/lib/api/response"
)

// Me returns the account of the authenticated user.
func Me(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := cont.GetUser(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Unauthorized"))
			return
		}

		user, err := handler.GetUser(current.Email)
		if err != nil {
			log.Error("failed to get user", slog.String("user", current.Email), slog.Any("error", err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to get user"))
			return
		}

		if user == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("User not found"))
			return
		}

		render.JSON(w, r, response.Ok(user))
	}
}
