package handler

import (
	"errors"
	"net/http"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/db"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/handler/request"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/middle"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/render"
	"go.uber.org/zap"
)

type ValidateResponse struct {
	RunID  string    `json:"run_id,omitempty"`
	OK     bool      `json:"ok"`
	Report cv.Report `json:"report"`
}

// Validate a cv.ra posted as the request body
func (dbctx *DBContext) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	log := middle.Logger(r.Context(), logger.L())

	req, err := request.ParseValidateQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var opts []cv.Option
	if dbctx.ProtocolPath != "" {
		opts = append(opts, cv.WithProtocolPath(dbctx.ProtocolPath))
	}
	f, err := cv.Parse(http.MaxBytesReader(w, r.Body, dbctx.maxBody()), opts...)
	if err != nil {
		log.Debug("Rejected cv.ra upload", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report := req.Apply(f.Validate())
	log.Info("Validated upload",
		zap.String("source", req.Source),
		zap.Int("stanzas", f.Len()),
		zap.Int("issues", len(report.Issues)),
	)

	if dbctx.Metrics != nil {
		kinds := make([]string, 0, len(report.Issues))
		for _, i := range report.Issues {
			kinds = append(kinds, i.Kind.String())
		}
		dbctx.Metrics.ObserveValidation(report.OK(), kinds)
	}

	resp := ValidateResponse{OK: report.OK(), Report: report}
	if dbctx.Store != nil {
		run, err := dbctx.Store.SaveRun(r.Context(), req.Source, report)
		if err != nil {
			log.Error("Cannot archive run", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "cannot archive run")
			return
		}
		resp.RunID = run.ID
	}

	switch req.Format {
	case request.FormatHTML:
		if resp.RunID == "" {
			writeError(w, http.StatusBadRequest, "html reports need a database")
			return
		}
		http.Redirect(w, r, "/report/"+resp.RunID, http.StatusSeeOther)
	case request.FormatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := render.RenderReportText(w, report); err != nil {
			log.Error("Cannot render report", zap.Error(err))
		}
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (dbctx *DBContext) loadRun(w http.ResponseWriter, r *http.Request) (db.Run, bool) {
	if dbctx.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "no database configured")
		return db.Run{}, false
	}
	id := r.PathValue("run_id")
	run, err := dbctx.Store.GetRun(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no run "+id)
		return db.Run{}, false
	}
	if err != nil {
		logger.Error("Cannot read run", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot read run")
		return db.Run{}, false
	}
	return run, true
}

// Archived run as JSON
func (dbctx *DBContext) RunHandler(w http.ResponseWriter, r *http.Request) {
	if run, ok := dbctx.loadRun(w, r); ok {
		writeJSON(w, http.StatusOK, run)
	}
}

// Archived run as an HTML report
func (dbctx *DBContext) ReportPage(w http.ResponseWriter, r *http.Request) {
	run, ok := dbctx.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderReportPage(w, run); err != nil {
		logger.Error("Cannot render report page", zap.String("run_id", run.ID), zap.Error(err))
	}
}
