package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/collapse"
	orgerrors "github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/tree"
)

// GraphResponse is returned by the graph endpoints.
type GraphResponse struct {
	Graph     *graph.Graph      `json:"graph"`
	Collapsed collapse.Set      `json:"collapsed"`
	SessionID string            `json:"session_id,omitempty"`
	Issues    []orgerrors.Issue `json:"issues,omitempty"`
}

// ToggleResponse is returned by the session toggle endpoint.
type ToggleResponse struct {
	NodeID    string       `json:"node_id"`
	Collapsed bool         `json:"collapsed"`
	State     collapse.Set `json:"state"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID string `json:"id"`
}

// TreeResponse is returned by /api/tree.
type TreeResponse struct {
	Roots  []*tree.Node[org.Node] `json:"roots"`
	Issues []orgerrors.Issue      `json:"issues,omitempty"`
}

// RosterResponse is returned by /api/roster.
type RosterResponse struct {
	Reservists []org.Node        `json:"reservists"`
	Issues     []orgerrors.Issue `json:"issues,omitempty"`
}

// ElementsResponse is returned by /api/elements.
type ElementsResponse struct {
	Roots  []*tree.Node[tree.ElementItem] `json:"roots"`
	Issues []orgerrors.Issue              `json:"issues,omitempty"`
}

func issues(err error) []orgerrors.Issue {
	if ie, ok := orgerrors.AsIntegrity(err); ok {
		return ie.Issues
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	collapsed := collapse.Parse(r.URL.Query().Get("collapsed"))
	g, err := s.runner.Graph(r.Context(), collapsed)
	writeJSON(w, http.StatusOK, GraphResponse{Graph: g, Collapsed: collapsed, Issues: issues(err)})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, SessionResponse{ID: s.sessions.Create()})
}

func (s *Server) handleSessionGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	collapsed, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.runner.Graph(r.Context(), collapsed)
	writeJSON(w, http.StatusOK, GraphResponse{Graph: g, Collapsed: collapsed, SessionID: id, Issues: issues(err)})
}

func (s *Server) handleSessionToggle(w http.ResponseWriter, r *http.Request) {
	id, nodeID := chi.URLParam(r, "id"), chi.URLParam(r, "nodeID")
	if _, err := s.sessions.Get(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap := s.runner.Load(r.Context())
	var now bool
	state, err := s.sessions.Update(id, func(set *collapse.Set) error {
		var err error
		now, err = pipeline.Toggle(snap, set, nodeID)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("toggled node", "session", id, "node", nodeID, "collapsed", now)
	writeJSON(w, http.StatusOK, ToggleResponse{NodeID: nodeID, Collapsed: now, State: state})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	roots, err := s.runner.Tree(r.Context())
	if roots == nil {
		roots = []*tree.Node[org.Node]{}
	}
	writeJSON(w, http.StatusOK, TreeResponse{Roots: roots, Issues: issues(err)})
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.runner.Roster(r.Context())
	if roster == nil {
		roster = []org.Node{}
	}
	writeJSON(w, http.StatusOK, RosterResponse{Reservists: roster, Issues: issues(err)})
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	roots, err := s.runner.Elements(r.Context())
	if roots == nil {
		roots = []*tree.Node[tree.ElementItem]{}
	}
	writeJSON(w, http.StatusOK, ElementsResponse{Roots: roots, Issues: issues(err)})
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.Invalidate(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"invalidated": true})
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, collapse.ErrSessionNotFound) {
		return http.StatusNotFound
	}
	switch orgerrors.GetCode(err) {
	case orgerrors.ErrCodeNotCollapsible:
		return http.StatusConflict
	case orgerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case orgerrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
