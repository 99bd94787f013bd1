package activity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"WhatsEase/entity"
	"WhatsEase/internal/lib/api/response"
)

// Core defines the methods required by activity handlers.
type Core interface {
	GetActivity() ([]entity.ActivityLog, error)
}

// List returns the most recent activity-log rows, newest first.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := handler.GetActivity()
		if err != nil {
			log.Error("failed to get activity logs", slog.Any("error", err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to get activity"))
			return
		}

		if logs == nil {
			logs = []entity.ActivityLog{}
		}

		render.JSON(w, r, response.Ok(logs))
	}
}
