package handler

import (
	"errors"
	"net/http"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/db"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/render"
	"go.uber.org/zap"
)

type TypeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Terms       int    `json:"terms"`
}

type TermsResponse struct {
	Type  string              `json:"type"`
	Terms []map[string]string `json:"terms"`
}

func (dbctx *DBContext) vocabulary(w http.ResponseWriter) (*cv.File, bool) {
	if dbctx.Vocab == nil {
		writeError(w, http.StatusServiceUnavailable, "no controlled vocabulary configured")
		return nil, false
	}
	f, _ := dbctx.Vocab.Current()
	if f == nil {
		writeError(w, http.StatusServiceUnavailable, "controlled vocabulary not loaded")
		return nil, false
	}
	return f, true
}

// List every vocabulary type with its term count
func (dbctx *DBContext) TypesHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := dbctx.vocabulary(w)
	if !ok {
		return
	}

	types := []TypeInfo{}
	for _, name := range f.TypeNames() {
		info := TypeInfo{Name: name, Terms: len(f.Terms(name))}
		if tot, n := f.TypeOfTerm(name); n == 1 {
			info.Description = tot.Value("description")
		}
		types = append(types, info)
	}
	writeJSON(w, http.StatusOK, types)
}

// Terms of one type, straight from the loaded file
func (dbctx *DBContext) TermsHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := dbctx.vocabulary(w)
	if !ok {
		return
	}

	typeName := r.PathValue("type")
	terms := f.Terms(typeName)
	if len(terms) == 0 {
		writeError(w, http.StatusNotFound, "no terms of type "+typeName)
		return
	}

	resp := TermsResponse{Type: typeName}
	for _, t := range terms {
		resp.Terms = append(resp.Terms, t.Fields())
	}
	writeJSON(w, http.StatusOK, resp)
}

// HTML table of the terms of one type
func (dbctx *DBContext) TermsPage(w http.ResponseWriter, r *http.Request) {
	f, ok := dbctx.vocabulary(w)
	if !ok {
		return
	}

	typeName := r.PathValue("type")
	terms := f.Terms(typeName)
	if len(terms) == 0 {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	data := render.TermsPageData{Type: typeName, Columns: render.TermColumns(terms), Terms: terms}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderTermsPage(w, data); err != nil {
		logger.Error("Cannot render terms page", zap.String("type", typeName), zap.Error(err))
	}
}

// One term as exported to the database
func (dbctx *DBContext) TermHandler(w http.ResponseWriter, r *http.Request) {
	if dbctx.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "no database configured")
		return
	}

	typeName, term := r.PathValue("type"), r.PathValue("term")
	values, err := dbctx.Store.TermValues(r.Context(), typeName, term)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no term "+term+" of type "+typeName)
		return
	}
	if err != nil {
		logger.Error("Cannot read term", zap.String("type", typeName), zap.String("term", term), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot read term")
		return
	}
	writeJSON(w, http.StatusOK, values)
}
