// Package pokeapitest provides an in-process fake of the PokeAPI endpoints
// used by pokedex, for tests.
package pokeapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Names is the fixture dex served by the fake, in id order (id = index+1).
var Names = []string{
	"bulbasaur", "ivysaur", "venusaur", "charmander", "charmeleon",
	"charizard", "squirtle", "wartortle", "blastoise", "caterpie",
	"metapod", "butterfree", "weedle", "kakuna", "beedrill",
	"pidgey", "pidgeotto", "pidgeot", "rattata", "raticate",
	"spearow", "fearow", "ekans", "arbok", "pikachu",
	"raichu", "sandshrew", "sandslash", "nidoran-f", "nidorina",
	"nidoqueen", "nidoran-m", "nidorino", "nidoking", "clefairy",
	"clefable", "vulpix", "ninetales", "jigglypuff", "wigglytuff",
	"zubat", "golbat", "oddish", "gloom", "vileplume",
}

// types maps fixture names to their type list; unlisted names are "normal".
var types = map[string][]string{
	"bulbasaur":  {"grass", "poison"},
	"ivysaur":    {"grass", "poison"},
	"venusaur":   {"grass", "poison"},
	"charmander": {"fire"},
	"charmeleon": {"fire"},
	"charizard":  {"fire", "flying"},
	"squirtle":   {"water"},
	"wartortle":  {"water"},
	"blastoise":  {"water"},
	"pikachu":    {"electric"},
	"raichu":     {"electric"},
	"clefairy":   {"fairy"},
	"jigglypuff": {"normal", "fairy"},
	"zubat":      {"poison", "flying"},
}

// Server is a fake PokeAPI. It counts every request by path and can be told
// to fail or stall specific paths.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	hits     map[string]int
	failures map[string]int
	gate     chan struct{}
}

// NewServer starts a fake PokeAPI and registers its shutdown with t.Cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		hits:     make(map[string]int),
		failures: make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/pokemon", s.handleList)
	mux.HandleFunc("GET /api/v2/pokemon/{key}", s.handleEntity)
	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API root to pass to pokeapi.WithBaseURL.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v2"
}

// Hits returns how many requests reached path (e.g. "/api/v2/pokemon/pikachu").
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

// FailPath makes every request to path answer with status.
func (s *Server) FailPath(path string, status int) {
	s.mu.Lock()
	s.failures[path] = status
	s.mu.Unlock()
}

// Hold stalls every request until the returned release func is called.
func (s *Server) Hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		status := s.failures[r.URL.Path]
		gate := s.gate
		s.mu.Unlock()

		if gate != nil {
			<-gate
		}
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	end := min(offset+limit, len(Names))
	results := []map[string]string{}
	for i := offset; i < end; i++ {
		results = append(results, map[string]string{
			"name": Names[i],
			"url":  fmt.Sprintf("%s/pokemon/%d/", s.BaseURL(), i+1),
		})
	}

	var prev, next *string
	if offset > 0 {
		p := s.listURL(max(offset-limit, 0), limit)
		prev = &p
	}
	if end < len(Names) {
		n := s.listURL(end, limit)
		next = &n
	}

	writeJSON(w, map[string]any{
		"count":    len(Names),
		"previous": prev,
		"next":     next,
		"results":  results,
	})
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	id, name := lookup(key)
	if id == 0 {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ts := types[name]
	if len(ts) == 0 {
		ts = []string{"normal"}
	}
	slots := make([]map[string]any, len(ts))
	for i, tn := range ts {
		slots[i] = map[string]any{
			"slot": i + 1,
			"type": map[string]string{"name": tn, "url": fmt.Sprintf("%s/type/%s/", s.BaseURL(), tn)},
		}
	}

	writeJSON(w, map[string]any{
		"id":     id,
		"name":   name,
		"height": id * 3,
		"weight": id * 20,
		"types":  slots,
		"sprites": map[string]string{
			"front_default": fmt.Sprintf("https://sprites.example/%d.png", id),
			"back_default":  fmt.Sprintf("https://sprites.example/back/%d.png", id),
		},
		"base_experience": 64,
	})
}

func (s *Server) listURL(offset, limit int) string {
	return fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", s.BaseURL(), offset, limit)
}

// lookup resolves a path key (id or exact lower-case name) to an id and name.
// The real API is case-sensitive on names, so the fake is too.
func lookup(key string) (int, string) {
	if id, err := strconv.Atoi(key); err == nil {
		if id >= 1 && id <= len(Names) {
			return id, Names[id-1]
		}
		return 0, ""
	}
	for i, n := range Names {
		if n == key {
			return i + 1, n
		}
	}
	return 0, ""
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// EntityPath returns the request path for a detail lookup of key.
func EntityPath(key string) string {
	return "/api/v2/pokemon/" + strings.ToLower(key)
}

// ListPath is the request path for every list page.
const ListPath = "/api/v2/pokemon"
