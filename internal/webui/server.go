// Package webui is the read-only diagnostic HTTP server behind `lalrgen
// serve`: it exposes a built parser's states report and action/goto
// tables as JSON for external visualizers (SPEC_FULL.md's DOMAIN STACK
// entry for go-chi/chi and golang-jwt/jwt). It never mutates anything —
// the generator stays a batch pipeline; serve just hangs a read-only
// view off the in-memory result of one run. Grounded on
// server/endpoints.go's EndpointFunc/panicTo500 wrapper (the recover-and-
// 500 pattern) and server/server.go's verifyJWT/generateJWTForUser
// bearer-token shape (signed here with HS256), both generalized from a stateful multi-user game
// server down to a single shared read-only secret for the optional
// --auth diagnostic case.
package webui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/reduce"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// Snapshot is the built result a server instance exposes.
type Snapshot struct {
	Grammar   *ggrammar.Grammar
	Automaton *automaton.Automaton
	Plans     []*reduce.StatePlan
}

// Server is the diagnostic HTTP server.
type Server struct {
	snap      Snapshot
	authToken string // non-empty enables bearer-token auth
}

// New builds a Server over snap. If authToken is non-empty, every request
// must carry "Authorization: Bearer <token>" signed against it.
func New(snap Snapshot, authToken string) *Server {
	return &Server{snap: snap, authToken: authToken}
}

// Handler returns the chi router backing the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.authToken != "" {
		r.Use(s.requireAuth)
	}

	r.Get("/states", s.handleStates)
	r.Get("/states/{id}", s.handleState)
	r.Get("/symbols", s.handleSymbols)

	return r
}

// ListenAndServe starts the server on addr, recovering from handler
// panics into a 500 the way server/endpoints.go's panicTo500 does.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.authToken), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("lalrgen-serve"))
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid token: %v", err), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

// IssueToken mints a short-lived diagnostic token signed with the
// server's auth secret, for CLI operators to hand to a visualizer.
func IssueToken(authToken string) (string, error) {
	claims := jwt.MapClaims{
		"iss": "lalrgen-serve",
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(authToken))
}

type stateView struct {
	ID                 int               `json:"id"`
	ErrorRecoveryState int               `json:"error_recovery_state,omitempty"`
	Shift              map[string]int    `json:"shift"`
	Goto               map[string]int    `json:"goto"`
	Actions            map[string]string `json:"actions"`
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	views := make([]stateView, 0, len(s.snap.Automaton.States))
	planByID := map[int]*reduce.StatePlan{}
	for _, p := range s.snap.Plans {
		planByID[p.StateID] = p
	}
	for _, st := range s.snap.Automaton.States {
		views = append(views, s.render(st, planByID[st.ID]))
	}
	writeJSON(w, views)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	planByID := map[int]*reduce.StatePlan{}
	for _, p := range s.snap.Plans {
		planByID[p.StateID] = p
	}
	for _, st := range s.snap.Automaton.States {
		if fmt.Sprint(st.ID) == id {
			writeJSON(w, s.render(st, planByID[st.ID]))
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"terminals":     s.snap.Grammar.Symbols.Terminals(),
		"non_terminals": s.snap.Grammar.Symbols.NonTerminals(),
	})
}

func (s *Server) render(st *automaton.State, plan *reduce.StatePlan) stateView {
	v := stateView{ID: st.ID, ErrorRecoveryState: st.ErrorRecoveryState, Shift: st.Shift, Goto: st.Goto, Actions: map[string]string{}}
	if plan != nil {
		for t, e := range plan.Actions {
			v.Actions[t] = e.Render(s.snap.Grammar)
		}
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
