package message

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"WhatsEase/impl/core"
	"WhatsEase/internal/lib/api/cont"
	"WhatsEase/internal/lib/api/response"
	"WhatsEase/internal/lib/validate"
)

type CreateRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

// Create sends a message over the REST path. It goes through the same
// delivery pipeline as the socket path.
func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := cont.GetUser(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Unauthorized"))
			return
		}

		var req CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if err := validate.Struct(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("recipient and content are required"))
			return
		}

		msg, err := handler.PostMessage(current.Email, req.Recipient, req.Content)
		if err != nil {
			if errors.Is(err, core.ErrInvalidRecipient) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid recipient email"))
				return
			}
			log.Error("failed to send message",
				slog.String("sender", current.Email),
				slog.String("recipient", req.Recipient),
				slog.Any("error", err),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to send message"))
			return
		}

		render.JSON(w, r, response.Ok(msg))
	}
}
