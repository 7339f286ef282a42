package api

import (
	"database/sql"
	"net/http"

	"github.com/loggate/loggate/internal/notify"
	"github.com/loggate/loggate/internal/store"
)

// systemInitResponse reports a completed bootstrap.
type systemInitResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// systemInitError reports a partial bootstrap: the steps that finished
// before the failure. Nothing is rolled back; re-running the endpoint is
// the recovery path.
type systemInitError struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// HandleSystemInit handles POST /systeminit. Safe to invoke repeatedly.
func HandleSystemInit(db *sql.DB, serviceVersion string, mirror *notify.Mirror) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		steps, err := store.Bootstrap(db, serviceVersion)
		if err != nil {
			mirror.Errorf("system init failed after %d steps: %v", len(steps), err)
			WriteJSON(w, http.StatusInternalServerError, systemInitError{
				Error:   err.Error(),
				Details: steps,
			})
			return
		}

		WriteJSON(w, http.StatusOK, systemInitResponse{
			Success: true,
			Message: "System initialized",
			Details: steps,
		})
	})
}
