package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/couchcryptid/forest-cover-service/internal/domain"
	"github.com/couchcryptid/forest-cover-service/internal/inference"
)

const uploadField = "file"

var (
	errNoUpload  = errors.New("no file part in upload")
	errNotCSV    = errors.New("upload is not a csv file")
	errMultipart = errors.New("malformed multipart body")
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.predictor.Health())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.writeError(w, r, err)
			return
		}
		writeDetail(w, http.StatusUnprocessableEntity, []errorDetail{{
			Loc:  []any{"body"},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}})
		return
	}
	fields, ok := body.(map[string]any)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, []errorDetail{{
			Loc:  []any{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
			Type: "model_attributes_type",
		}})
		return
	}

	obs, err := domain.ParseObservation(fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pred, err := s.predictor.Predict(r.Context(), obs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

func (s *Server) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	part, err := uploadPart(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer part.Close()

	frame, err := domain.ParseCSV(part)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.predictor.PredictBatch(r.Context(), frame)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("batch scored", "request_id", inference.RequestID(r.Context()), "rows", result.TotalRows)
	writeJSON(w, http.StatusOK, result)
}

// uploadPart streams the multipart body up to the upload field and checks its
// filename before any file content is read.
func uploadPart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, errNoUpload
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errNoUpload
		}
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return nil, err
			}
			return nil, errMultipart
		}
		if part.FormName() != uploadField {
			part.Close()
			continue
		}
		if !strings.HasSuffix(part.FileName(), ".csv") {
			part.Close()
			return nil, errNotCSV
		}
		return part, nil
	}
}
