package handler

import (
	"errors"
	"net/http"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/mdb"
	"go.uber.org/zap"
)

// Summarize a metaDb file posted as the request body
func (dbctx *DBContext) MdbSummaryHandler(w http.ResponseWriter, r *http.Request) {
	f, err := mdb.Parse(http.MaxBytesReader(w, r.Body, dbctx.maxBody()), dbctx.Registry)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := mdb.Summarize(f)
	if errors.Is(err, mdb.ErrNoComposite) || errors.Is(err, mdb.ErrMultipleComposite) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		logger.Error("Cannot summarize metaDb", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot summarize metaDb")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
