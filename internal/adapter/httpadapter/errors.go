package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/forest-cover-service/internal/domain"
	"github.com/couchcryptid/forest-cover-service/internal/inference"
)

// errorDetail is one entry of a FastAPI-style validation error list.
type errorDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// writeError maps an error from decoding or inference onto a status code and
// a {"detail": ...} body. Unexpected errors are logged and reported
// generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		perr *domain.ParseError
		merr *domain.MissingColumnError
		mbe  *http.MaxBytesError
	)

	switch {
	case errors.As(err, &verr):
		details := make([]errorDetail, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = errorDetail{Loc: []any{"body", f.Field}, Msg: f.Message, Type: f.Type}
		}
		writeDetail(w, http.StatusUnprocessableEntity, details)
	case errors.As(err, &perr):
		writeDetail(w, http.StatusUnprocessableEntity, "Could not parse CSV: "+perr.Error())
	case errors.As(err, &merr):
		writeDetail(w, http.StatusUnprocessableEntity, merr.Error())
	case errors.Is(err, errNotCSV):
		writeDetail(w, http.StatusBadRequest, "Only CSV files are accepted.")
	case errors.Is(err, errNoUpload):
		writeDetail(w, http.StatusUnprocessableEntity, []errorDetail{{
			Loc:  []any{"body", uploadField},
			Msg:  "Field required",
			Type: "missing",
		}})
	case errors.Is(err, errMultipart):
		writeDetail(w, http.StatusBadRequest, "There was an error parsing the body")
	case errors.As(err, &mbe):
		writeDetail(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
	case errors.Is(err, domain.ErrUnavailable):
		writeDetail(w, http.StatusServiceUnavailable,
			"Model/preprocessor not loaded. Ensure the model and preprocessor artifacts are present.")
	default:
		s.logger.Error("prediction failed",
			"error", err,
			"request_id", inference.RequestID(r.Context()),
			"path", r.URL.Path,
		)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
