package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/format"
	"github.com/leapstack-labs/sqlt/pkg/interchange"
	"github.com/leapstack-labs/sqlt/pkg/parser"
	"github.com/leapstack-labs/sqlt/pkg/sqlt"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Request is the body accepted by the translate, format and parse endpoints.
type Request struct {
	SQL       string `json:"sql"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Pretty    bool   `json:"pretty,omitempty"`
	Comments  bool   `json:"comments,omitempty"`
	Positions bool   `json:"positions,omitempty"`
}

// SQLResponse is returned by translate and format.
type SQLResponse struct {
	SQL string `json:"sql"`
}

// ParseResponse is returned by parse.
type ParseResponse struct {
	Statements []interchange.Object `json:"statements"`
}

// ErrorResponse describes a rejected request. Line and Column are set for
// lex and parse errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// DialectSummary describes a registered dialect.
type DialectSummary struct {
	Name     string   `json:"name"`
	Quote    string   `json:"quote"`
	Features []string `json:"features"`
}

func (s *Server) handleDialects(w http.ResponseWriter, _ *http.Request) {
	names := dialect.List()
	out := make([]DialectSummary, 0, len(names))
	for _, name := range names {
		d := dialect.MustGet(name)
		sum := DialectSummary{Name: name, Quote: d.QuoteStyle().String(), Features: []string{}}
		for _, f := range dialect.AllFeatures() {
			if d.Supports(f) {
				sum.Features = append(sum.Features, f.String())
			}
		}
		out = append(out, sum)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	if req.To == "" {
		writeError(w, errors.New(`"to" is required`))
		return
	}
	from, to, err := s.dialects(req)
	if err != nil {
		writeError(w, err)
		return
	}
	s.process(w, req, from, to, true)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	from, err := s.source(req)
	if err != nil {
		writeError(w, err)
		return
	}
	s.process(w, req, from, from, false)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	from, err := s.source(req)
	if err != nil {
		writeError(w, err)
		return
	}
	stmts, err := parser.ParseScriptWithOptions(req.SQL, from, s.maxDepth)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := ParseResponse{Statements: make([]interchange.Object, len(stmts))}
	for i, stmt := range stmts {
		resp.Statements[i] = interchange.Encode(stmt, interchange.Options{Positions: req.Positions})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) process(w http.ResponseWriter, req *Request, from, to dialect.Dialect, transpile bool) {
	out, err := sqlt.Process(req.SQL, from, to, sqlt.Options{
		Options:  format.Options{Pretty: req.Pretty, Transpile: transpile},
		MaxDepth: s.maxDepth,
		Comments: req.Comments,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SQLResponse{SQL: out})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*Request, bool) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", err))
		return nil, false
	}
	return &req, true
}

func (s *Server) source(req *Request) (dialect.Dialect, error) {
	name := req.From
	if name == "" {
		name = s.dialect
	}
	return s.resolve(name)
}

func (s *Server) dialects(req *Request) (from, to dialect.Dialect, err error) {
	if from, err = s.source(req); err != nil {
		return nil, nil, err
	}
	if to, err = s.resolve(req.To); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// positioned is implemented by lexer and parser errors.
type positioned interface {
	Position() token.Position
}

// Every error a handler reports stems from the request.
func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var p positioned
	if errors.As(err, &p) {
		pos := p.Position()
		resp.Line, resp.Column = pos.Line, pos.Column
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
