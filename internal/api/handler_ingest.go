package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/loggate/loggate/internal/notify"
	"github.com/loggate/loggate/internal/servicelog"
)

// appendLogRequest is the ingestion body. Field names follow the
// wide-column layout: c1=service id, c2=instance id, i1=level,
// t1=message. Pointers distinguish absent fields from zero values —
// level 0 is valid, a missing level is not.
type appendLogRequest struct {
	C1 *string `json:"c1"`
	C2 *string `json:"c2"`
	I1 *int64  `json:"i1"`
	T1 *string `json:"t1"`
}

// HandleAppendLog handles POST /log. After a confirmed insert the two
// forwarders run independently, each swallowing its own error; the
// response is 200 as soon as the row is durable, no matter what the
// forwarders do.
func HandleAppendLog(
	repo *servicelog.Repo,
	publisher notify.Publisher,
	messenger notify.Messenger,
	mirror *notify.Mirror,
	chatLevelThreshold int64,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req appendLogRequest
		if err := DecodeBody(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "Missing one or more required fields")
			return
		}
		if req.C1 == nil || *req.C1 == "" ||
			req.C2 == nil || *req.C2 == "" ||
			req.I1 == nil ||
			req.T1 == nil || *req.T1 == "" {
			WriteError(w, http.StatusBadRequest, "Missing one or more required fields")
			return
		}

		rec := servicelog.Record{
			ServiceID:  *req.C1,
			InstanceID: *req.C2,
			Level:      *req.I1,
			Message:    *req.T1,
		}
		id, err := repo.Insert(rec)
		if err != nil {
			mirror.Errorf("append log insert failed: %v", err)
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}

		// Best-effort forwards. A malformed pub/sub key is a config
		// problem and raises an error notification; transport failures
		// are logged locally only.
		if err := publisher.Publish(r.Context(), "log", map[string]any{
			"id": id,
			"c1": rec.ServiceID,
			"c2": rec.InstanceID,
			"i1": rec.Level,
			"t1": rec.Message,
		}); err != nil {
			if errors.Is(err, notify.ErrMalformedKey) {
				mirror.Errorf("pub/sub forward: %v", err)
			} else {
				log.Printf("[ingest] pub/sub forward failed: %v", err)
			}
		}

		if rec.Level >= chatLevelThreshold {
			if err := messenger.Send(r.Context(), formatChatSummary(rec)); err != nil {
				log.Printf("[ingest] chat forward failed: %v", err)
			}
		}

		WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
}

// formatChatSummary renders the short human-readable relay message.
func formatChatSummary(rec servicelog.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rec.Message)
	fmt.Fprintf(&b, "service: %s/%s, level: %d", rec.ServiceID, rec.InstanceID, rec.Level)
	return b.String()
}
