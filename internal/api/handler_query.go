package api

import (
	"net/http"

	"github.com/loggate/loggate/internal/servicelog"
)

const defaultQueryLimit = 50

// HandleQueryLogs handles GET /logs.
// Query params: service_id, instance_id, level (exact matches),
// from, to (inclusive creation-time bounds), limit (default 50).
// All supplied filters compose with AND; the result is ordered newest
// first. Parsing is lenient: a non-numeric limit falls back to the
// default and an unparsable filter value is treated as absent.
func HandleQueryLogs(repo *servicelog.Repo) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := servicelog.Filter{
			ServiceID:  q.Get("service_id"),
			InstanceID: q.Get("instance_id"),
			Level:      parseIntQuery(r, "level"),
			From:       parseTimeQuery(r, "from"),
			To:         parseTimeQuery(r, "to"),
			Limit:      parseLimitQuery(r, defaultQueryLimit),
		}

		rows, err := repo.List(f)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}

		WriteJSON(w, http.StatusOK, rows)
	})
}
