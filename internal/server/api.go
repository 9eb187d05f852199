package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wethinkt/go-demoreel/internal/applog"
	"github.com/wethinkt/go-demoreel/internal/encode"
	"github.com/wethinkt/go-demoreel/internal/metrics"
	"github.com/wethinkt/go-demoreel/internal/pipeline"
	"github.com/wethinkt/go-demoreel/internal/render"
	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/timeline"
	"github.com/wethinkt/go-demoreel/internal/version"
)

// API response types

// ScenariosResponse lists servable scenarios.
type ScenariosResponse struct {
	Scenarios []ScenarioInfo `json:"scenarios"`
}

// ScenarioInfo summarises one scenario.
type ScenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Frames      int    `json:"frames"`
	FPS         int    `json:"fps"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// TimelineResponse describes the frames of a scenario.
type TimelineResponse struct {
	Scenario string          `json:"scenario"`
	Total    int             `json:"total"`
	Counts   timeline.Counts `json:"counts"`
	Runs     []timeline.Run  `json:"runs"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// maxFrameDPI bounds the dpi query parameter of frame requests.
const maxFrameDPI = 300

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, err string, msg string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: msg})
}

// writeLookupError maps a scenario lookup failure to a response.
func writeLookupError(w http.ResponseWriter, err error) int {
	if errors.Is(err, scenario.ErrUnknownScenario) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return http.StatusNotFound
	}
	applog.Log.Error("prepare scenario", "error", err)
	writeError(w, http.StatusInternalServerError, "prepare_failed", err.Error())
	return http.StatusInternalServerError
}

func countRequest(status int) {
	metrics.ServerFrameRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

func info(e *entry) ScenarioInfo {
	sc := e.env.Scenario
	return ScenarioInfo{
		Name:        sc.Name,
		Description: sc.Description,
		Frames:      len(e.frames),
		FPS:         sc.Output.FPS,
		Width:       int(sc.Output.WidthIn*sc.Output.DPI + 0.5),
		Height:      int(sc.Output.HeightIn*sc.Output.DPI + 0.5),
	}
}

// handleListScenarios returns every servable scenario.
func (s *HTTPServer) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	resp := ScenariosResponse{Scenarios: []ScenarioInfo{}}
	for _, name := range s.names() {
		e, err := s.lookup(name)
		if err != nil {
			writeLookupError(w, err)
			return
		}
		resp.Scenarios = append(resp.Scenarios, info(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetScenario returns the full scenario definition.
func (s *HTTPServer) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "name"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e.env.Scenario)
}

// handleGetTimeline returns per-phase counts and phase runs.
func (s *HTTPServer) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "name"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	counts := timeline.PlanCounts(e.env.Scenario)
	writeJSON(w, http.StatusOK, TimelineResponse{
		Scenario: e.env.Scenario.Name,
		Total:    counts.Total(),
		Counts:   counts,
		Runs:     timeline.Runs(e.frames),
	})
}

// handleGetFrame renders one frame as PNG. Negative indices count from the
// end; ?dpi= overrides the animation DPI.
func (s *HTTPServer) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "name"))
	if err != nil {
		countRequest(writeLookupError(w, err))
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		countRequest(http.StatusBadRequest)
		writeError(w, http.StatusBadRequest, "bad_index", "frame index must be an integer")
		return
	}
	frame, err := render.FrameAt(e.frames, index)
	if err != nil {
		countRequest(http.StatusNotFound)
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	dpi := e.env.Scenario.Output.DPI
	if q := r.URL.Query().Get("dpi"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil || v <= 0 || v > maxFrameDPI {
			countRequest(http.StatusBadRequest)
			writeError(w, http.StatusBadRequest, "bad_dpi", "dpi must be within (0, 300]")
			return
		}
		dpi = v
	}

	img, err := pipeline.RenderFrame(e.env, frame, dpi)
	if err != nil {
		countRequest(http.StatusInternalServerError)
		writeError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := encode.WritePNG(&buf, img); err != nil {
		countRequest(http.StatusInternalServerError)
		writeError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}

	countRequest(http.StatusOK)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Generator", version.Generator("demoreel"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// handleGetAnimation serves the full animation, encoding it once per
// scenario. The encode is not tied to the first request's context so a
// client disconnect does not poison the cache.
func (s *HTTPServer) handleGetAnimation(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "name"))
	if err != nil {
		countRequest(writeLookupError(w, err))
		return
	}

	e.gifOnce.Do(func() {
		e.gif, _, e.gifErr = pipeline.Animation(context.Background(), e.env, e.frames, nil)
	})
	if e.gifErr != nil {
		countRequest(http.StatusInternalServerError)
		writeError(w, http.StatusInternalServerError, "encode_failed", e.gifErr.Error())
		return
	}

	countRequest(http.StatusOK)
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("X-Generator", version.Generator("demoreel"))
	w.Header().Set("Content-Length", strconv.Itoa(len(e.gif)))
	w.Write(e.gif)
}

// handleIndex serves a minimal page listing the scenarios.
func (s *HTTPServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>demoreel</title></head>\n<body>\n<h1>demoreel</h1>\n<ul>\n")
	for _, name := range s.names() {
		esc := html.EscapeString(name)
		b.WriteString(`<li>` + esc + `: <a href="/api/v1/scenarios/` + esc + `/animation.gif">animation</a>, ` +
			`<a href="/api/v1/scenarios/` + esc + `/frames/-1.png">last frame</a>, ` +
			`<a href="/api/v1/scenarios/` + esc + `/timeline">timeline</a></li>` + "\n")
	}
	b.WriteString("</ul>\n<p><a href=\"/metrics\">metrics</a></p>\n</body>\n</html>\n")
	w.Write(b.Bytes())
}
