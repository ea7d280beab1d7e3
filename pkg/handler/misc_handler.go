// Handler for miscellaneous endpoints such as health check

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"go.uber.org/zap"
)

type HealthResponse struct {
	Health    string     `json:"health"`
	Timestamp time.Time  `json:"timestamp"`
	CvPath    string     `json:"cv_path,omitempty"`
	CvLoaded  *time.Time `json:"cv_loaded,omitempty"`
}

func (dbctx *DBContext) HealthCheck(w http.ResponseWriter, r *http.Request) {

	response := HealthResponse{
		Health:    "ok",
		Timestamp: time.Now(),
	}
	if dbctx.Vocab != nil {
		response.CvPath = dbctx.Vocab.Path()
		if f, at := dbctx.Vocab.Current(); f != nil {
			response.CvLoaded = &at
		}
	}

	writeJSON(w, http.StatusOK, response)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Cannot encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
