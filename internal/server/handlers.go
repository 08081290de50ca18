package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/boolnet/pkg/buildinfo"
	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/render"
	"github.com/matzehuels/boolnet/pkg/render/nodelink"
	"github.com/matzehuels/boolnet/pkg/session"
)

// createRequest is the JSON body of POST /v1/sessions. Exactly one of
// Generate and Text must be set.
type createRequest struct {
	Generate *generateRequest `json:"generate,omitempty"`
	Text     string           `json:"text,omitempty"`
}

type generateRequest struct {
	Nodes          int     `json:"nodes"`
	MinConnections int     `json:"min_connections"`
	MaxConnections int     `json:"max_connections"`
	Seed           *uint64 `json:"seed,omitempty"`
}

// sessionResponse summarizes a session. States uses 1 for on and 0 for off.
type sessionResponse struct {
	ID         string `json:"id"`
	Generation uint64 `json:"generation"`
	Rule       string `json:"rule"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	States     string `json:"states"`
}

func summarize(s *session.Session) (sessionResponse, error) {
	n, err := s.Network()
	if err != nil {
		return sessionResponse{}, err
	}
	return sessionResponse{
		ID:         s.ID(),
		Generation: s.Generation(),
		Rule:       n.Rule(),
		Nodes:      n.Len(),
		Edges:      n.EdgeCount(),
		States:     render.States(n, "1", "0"),
	}, nil
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rules":   s.reg.Names(),
		"default": s.reg.DefaultName(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": ids})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.limits.body))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	sess := session.New(s.reg, session.WithStepper(s.stepper))

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		err = sess.Load(ctx, bytes.NewReader(body), "request")
	} else {
		err = s.createFromJSON(r, sess, body)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := session.Save(ctx, s.store, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := summarize(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) createFromJSON(r *http.Request, sess *session.Session, body []byte) error {
	var req createRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}

	switch {
	case req.Generate != nil && req.Text != "":
		return errors.New(errors.ErrCodeInvalidInput, "set either generate or text, not both")
	case req.Text != "":
		return sess.Load(r.Context(), bytes.NewReader([]byte(req.Text)), "request")
	case req.Generate != nil:
		g := req.Generate
		if g.Nodes > s.limits.nodes {
			return errors.New(errors.ErrCodeInvalidInput, "nodes %d exceeds limit %d", g.Nodes, s.limits.nodes)
		}
		if g.MaxConnections > 0 && g.Nodes > s.limits.edges/g.MaxConnections {
			return errors.New(errors.ErrCodeInvalidInput, "nodes %d × max_connections %d exceeds edge limit %d",
				g.Nodes, g.MaxConnections, s.limits.edges)
		}
		n, err := s.generate(g.Seed, g.Nodes, g.MinConnections, g.MaxConnections)
		if err != nil {
			return err
		}
		sess.Replace(n)
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidInput, "request needs generate or text")
	}
}

func (s *Server) open(r *http.Request) (*session.Session, error) {
	return session.Open(r.Context(), s.store, s.reg, chi.URLParam(r, "id"), session.WithStepper(s.stepper))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := summarize(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text, err := sess.Text()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := sess.Network()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	dot := nodelink.ToDOT(n, nodelink.Options{
		OnColor:  q.Get("on"),
		OffColor: q.Get("off"),
		Detailed: q.Get("detailed") == "true",
	})

	switch format := q.Get("format"); format {
	case "", "svg":
		svg, err := nodelink.RenderSVG(dot)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = io.WriteString(w, dot)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (use dot or svg)", format))
	}
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	k := 1
	if v := r.URL.Query().Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "n must be a non-negative integer, got %q", v))
			return
		}
		k = n
	}
	if k > s.limits.steps {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "n %d exceeds limit %d", k, s.limits.steps))
		return
	}

	id := chi.URLParam(r, "id")
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.open(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Step(r.Context(), k); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := session.Save(r.Context(), s.store, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := summarize(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	unlock := s.locks.lock(id)
	defer unlock()

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rec == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "session %s not found", id))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
