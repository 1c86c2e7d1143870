package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flowlens/flowlens/pkg/cfg"
	"github.com/flowlens/flowlens/pkg/djgraph"
	"github.com/flowlens/flowlens/pkg/pipeline"
	"github.com/flowlens/flowlens/pkg/store"
	"github.com/flowlens/flowlens/pkg/xerrors"
)

// maxBodyBytes caps analysis request bodies at 8 MiB.
const maxBodyBytes = 8 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateAnalysis accepts a CFG document, runs the pipeline, and
// stores the result. The entry can be overridden with ?entry=.
func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var doc cfg.Document
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		respondError(w, xerrors.Wrap(xerrors.CodeInvalidFormat, err, "decode request body"))
		return
	}

	g, err := doc.ToGraph()
	if err != nil {
		respondError(w, xerrors.Wrap(xerrors.CodeInvalidGraph, err, "invalid CFG document"))
		return
	}

	opts := pipeline.Options{
		Entry:   r.URL.Query().Get("entry"),
		Formats: []string{pipeline.FormatJSON},
		Logger:  s.logger,
	}
	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		respondError(w, err)
		return
	}

	rec := store.Record{
		ID:        store.NewID(),
		CreatedAt: time.Now().UTC(),
		GraphHash: result.GraphHash,
		Input:     doc,
		Result:    result.Doc,
		Stats: store.Stats{
			VertexCount:    result.Stats.VertexCount,
			EdgeCount:      result.Stats.EdgeCount,
			DominanceEdges: result.Stats.DominanceCount,
			BackJoins:      result.Stats.BackJoinCount,
			CrossJoins:     result.Stats.CrossJoinCount,
			BuildMillis:    result.Stats.BuildTime.Milliseconds(),
		},
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		respondError(w, xerrors.Wrap(xerrors.CodeStore, err, "store analysis"))
		return
	}

	respondJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, xerrors.New(xerrors.CodeInvalidInput, "invalid limit %q", raw))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		respondError(w, xerrors.Wrap(xerrors.CodeStore, err, "list analyses"))
		return
	}

	// Listings return summaries, not full documents
	type summary struct {
		ID        string      `json:"id"`
		CreatedAt time.Time   `json:"created_at"`
		GraphHash string      `json:"graph_hash"`
		Entry     string      `json:"entry"`
		Stats     store.Stats `json:"stats"`
	}
	out := make([]summary, len(recs))
	for i, rec := range recs {
		out[i] = summary{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			GraphHash: rec.GraphHash,
			Entry:     rec.Result.Entry,
			Stats:     rec.Stats,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetAnalysisDOT renders a stored DJ-graph as DOT source.
// Query params: rank_by_level, edge_labels (both boolean).
func (s *Server) handleGetAnalysisDOT(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	dj, err := rec.Result.ToGraph()
	if err != nil {
		respondError(w, xerrors.Wrap(xerrors.CodeInternal, err, "decode stored result"))
		return
	}

	q := r.URL.Query()
	dot := djgraph.ToDOT(dj, djgraph.DOTOptions{
		RankByLevel: q.Get("rank_by_level") == "true",
		EdgeLabels:  q.Get("edge_labels") == "true",
	})

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dot))
}
