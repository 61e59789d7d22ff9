package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gopkg.in/guregu/null.v3"

	"github.com/carbocation/platemap/compileinfo"
	"github.com/carbocation/platemap/hitpick"
	"github.com/carbocation/platemap/hittable"
	"github.com/carbocation/platemap/plate"
	"github.com/carbocation/platemap/pool"
	"github.com/carbocation/platemap/rearrange"
	"github.com/carbocation/platemap/render"
)

//go:embed templates
var embeddedTemplates embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(embeddedTemplates, "templates/index.html")
}

// handler provides global values that must be safe for concurrent use from
// multiple goroutines to each handler method. Nothing here is mutated after
// startup.
type handler struct {
	*Global

	router *mux.Router
	index  *template.Template
}

func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	f := h.config.Format()

	schemes := []string{h.config.Scheme.String()}
	for _, s := range []pool.Scheme{pool.Quadrant, pool.ByPlate} {
		if s != h.config.Scheme {
			schemes = append(schemes, s.String())
		}
	}

	output := struct {
		Site    string
		Format  plate.Format
		Wells   int
		Rows    int
		Cols    int
		Scheme  pool.Scheme
		Schemes []string
		Group   int
	}{h.Site, f, f.Wells(), f.Rows, f.Cols, h.config.Scheme, schemes, h.config.GroupPlates}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.index.Execute(w, output); err != nil {
		h.log.Println(err)
	}
}

func (h *handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(h, w, r, compileinfo.Get())
}

func (h *handler) Example(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("format") == "json" {
		writeJSON(h, w, r, tableJSON(hittable.Example()))
		return
	}

	writeCSV(h, w, r, "example.csv", hittable.Example())
}

func (h *handler) Layout(w http.ResponseWriter, r *http.Request) {
	f := h.config.Format()

	var err error
	if v := r.FormValue("rows"); v != "" {
		if f.Rows, err = strconv.Atoi(v); err != nil {
			JSONError(h, w, r, fmt.Errorf("rows: %w", err), http.StatusBadRequest)
			return
		}
	}
	if v := r.FormValue("cols"); v != "" {
		if f.Cols, err = strconv.Atoi(v); err != nil {
			JSONError(h, w, r, fmt.Errorf("cols: %w", err), http.StatusBadRequest)
			return
		}
	}

	layout, err := plate.CanonicalLayout(f)
	if err != nil {
		JSONError(h, w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(h, w, r, struct {
		Success bool
		Format  string
		Wells   []string
	}{true, f.String(), layout.Labels()})
}

func (h *handler) Deconvolution(w http.ResponseWriter, r *http.Request) {
	h.worklist(w, r, true)
}

func (h *handler) Rearrangement(w http.ResponseWriter, r *http.Request) {
	h.worklist(w, r, false)
}

func (h *handler) worklist(w http.ResponseWriter, r *http.Request, deconvolve bool) {
	res, name, err := h.buildWorklist(w, r, deconvolve)
	if err != nil {
		JSONError(h, w, r, err, http.StatusBadRequest)
		return
	}

	group, err := intParam(r, "group", h.config.GroupPlates)
	if err != nil {
		JSONError(h, w, r, err, http.StatusBadRequest)
		return
	}
	batch, err := intParam(r, "batch", 0)
	if err != nil {
		JSONError(h, w, r, err, http.StatusBadRequest)
		return
	}

	prefix := rearrange.OutputPrefix(name)
	filename := prefix + rearrange.WorklistSuffix + ".csv"
	out := res
	batches := 0

	if group > 0 {
		all, err := res.Batches(group)
		if err != nil {
			JSONError(h, w, r, err, http.StatusBadRequest)
			return
		}
		batches = len(all)

		if batch > 0 {
			if batch > len(all) {
				JSONError(h, w, r, fmt.Errorf("batch %d requested but the worklist has %d batches of %d plates", batch, len(all), group), http.StatusNotFound)
				return
			}
			out = all[batch-1].Result
			filename = fmt.Sprintf("%s%s_%d.csv", prefix, rearrange.WorklistSuffix, batch)
		}
	} else if batch > 0 {
		JSONError(h, w, r, fmt.Errorf("batch requires group > 0"), http.StatusBadRequest)
		return
	}

	if r.FormValue("format") != "json" {
		writeCSV(h, w, r, filename, out.Table())
		return
	}

	t := out.Table()
	writeJSON(h, w, r, struct {
		Success  bool
		Filename string
		Header   []string
		Rows     [][]string
		Plates   int
		Batches  int
		Summary  []rearrange.PlateSummary
		Skipped  []skippedJSON
	}{true, filename, t.Header, t.Rows, out.Plates(), batches, out.Summary(), skipped(res.Diagnostics)})
}

// buildWorklist reads the uploaded hit list and runs the requested workflow
// over it. It also returns the uploaded file's name.
func (h *handler) buildWorklist(w http.ResponseWriter, r *http.Request, deconvolve bool) (rearrange.Result, string, error) {
	tbl, name, err := h.upload(w, r)
	if err != nil {
		return rearrange.Result{}, name, err
	}

	opts := []rearrange.Option{
		rearrange.WithFormat(h.config.Format()),
		rearrange.WithLogger(h.log),
	}

	sortBySource, err := boolParam(r, "sort")
	if err != nil {
		return rearrange.Result{}, name, err
	}
	if sortBySource {
		opts = append(opts, rearrange.SortBySource())
	}

	if !deconvolve {
		opts = append(opts, rearrange.WithVolume(h.config.RearrangementVolume))
		res, err := rearrange.Rearrange(tbl, opts...)
		return res, name, err
	}

	scheme := h.config.Scheme
	if v := r.FormValue("scheme"); v != "" {
		if scheme, err = pool.ParseScheme(v); err != nil {
			return rearrange.Result{}, name, err
		}
	}

	opts = append(opts, rearrange.WithVolume(h.config.DeconvolutionVolume))
	res, err := rearrange.Deconvolve(tbl, scheme, opts...)
	return res, name, err
}

func (h *handler) HitPick(w http.ResponseWriter, r *http.Request) {
	tbl, name, err := h.upload(w, r)
	if err != nil {
		JSONError(h, w, r, err, http.StatusBadRequest)
		return
	}

	o := hitpick.DefaultOptions()
	o.MinFold = 10
	if v := r.FormValue("fold"); v != "" {
		if o.MinFold, err = strconv.ParseFloat(v, 64); err != nil {
			JSONError(h, w, r, fmt.Errorf("fold: %w", err), http.StatusBadRequest)
			return
		}
	}
	if v := r.FormValue("pos"); v != "" {
		o.PositiveColumn = v
	}
	if v := r.FormValue("neg"); v != "" {
		o.NegativeColumn = v
	}

	res, err := hitpick.Pick(tbl, o)
	if err != nil {
		JSONError(h, w, r, err, http.StatusBadRequest)
		return
	}

	filename := rearrange.OutputPrefix(name) + rearrange.HitListSuffix + ".csv"

	if r.FormValue("format") != "json" {
		writeCSV(h, w, r, filename, res.Hits)
		return
	}

	summary, err := res.Summary()
	if err != nil {
		JSONError(h, w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(h, w, r, struct {
		Success     bool
		Filename    string
		Header      []string
		Rows        [][]string
		Measured    int
		Hits        int
		MeanFold    null.Float
		MedianFold  null.Float
		MaxFold     null.Float
		Correlation null.Float
		Skipped     []skippedJSON
	}{
		true, filename, res.Hits.Header, res.Hits.Rows, summary.Measured, summary.Hits,
		jsonFloat(summary.MeanFold, summary.Measured > 0),
		jsonFloat(summary.MedianFold, summary.Measured > 0),
		jsonFloat(summary.MaxFold, summary.Measured > 0),
		jsonFloat(summary.Correlation, true),
		skipped(res.Diagnostics),
	})
}

// PlateMap renders one destination plate of the worklist built from the
// upload. ?workflow=rearrangement selects hit rearrangement; anything else
// deconvolutes.
func (h *handler) PlateMap(w http.ResponseWriter, r *http.Request) {
	destPlate, err := strconv.Atoi(mux.Vars(r)["plate"])
	if err != nil {
		JSONError(h, w, r, err, http.StatusBadRequest)
		return
	}

	res, _, err := h.buildWorklist(w, r, r.FormValue("workflow") != "rearrangement")
	if err != nil {
		JSONError(h, w, r, err, http.StatusBadRequest)
		return
	}

	if destPlate < 1 || destPlate > res.Plates() {
		JSONError(h, w, r, fmt.Errorf("plate %d requested but the worklist uses %d plates", destPlate, res.Plates()), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := render.DestPlate(w, res, destPlate, h.hitColor); err != nil {
		h.log.Println(err)
	}
}

// upload reads the hit table from a multipart "file" field or, failing
// that, from the raw request body. For raw bodies, ?name= names the file so
// that its format can be told.
func (h *handler) upload(w http.ResponseWriter, r *http.Request) (hittable.Table, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return hittable.Table{}, "", fmt.Errorf("file: %w", err)
		}
		defer file.Close()

		tbl, err := hittable.Read(header.Filename, file)
		return tbl, header.Filename, err
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.csv"
	}

	tbl, err := hittable.Read(name, r.Body)
	return tbl, name, err
}

func intParam(r *http.Request, key string, def int) (int, error) {
	v := r.FormValue(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func boolParam(r *http.Request, key string) (bool, error) {
	v := r.FormValue(key)
	if v == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

type skippedJSON struct {
	Row    int
	Value  string
	Reason string
}

func skipped(diags []hittable.Diagnostic) []skippedJSON {
	out := make([]skippedJSON, 0, len(diags))
	for _, d := range diags {
		out = append(out, skippedJSON{Row: d.Row + 1, Value: d.Value, Reason: d.Err.Error()})
	}
	return out
}

func tableJSON(t hittable.Table) interface{} {
	return struct {
		Success bool
		Header  []string
		Rows    [][]string
	}{true, t.Header, t.Rows}
}

// jsonFloat maps NaN and unset values to JSON null.
func jsonFloat(v float64, valid bool) null.Float {
	return null.NewFloat(v, valid && !math.IsNaN(v) && !math.IsInf(v, 0))
}

func writeJSON(h *handler, w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		h.log.Println(r.URL.Path, err)
	}
}

func writeCSV(h *handler, w http.ResponseWriter, r *http.Request, filename string, t hittable.Table) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := hittable.Write(w, t, ','); err != nil {
		h.log.Println(r.URL.Path, err)
	}
}
