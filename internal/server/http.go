package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/logging"
	"github.com/minuteai/minute-site/internal/typewriter"
	"github.com/minuteai/minute-site/internal/version"
	"github.com/minuteai/minute-site/internal/waitlist"
	"github.com/minuteai/minute-site/internal/web"
)

// RequestIDHeader carries the per-request ID on every response.
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 4 << 10

type ctxKey struct{}

// RequestID returns the request ID assigned by the middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST "+web.FormPath, s.handleForm)
	mux.HandleFunc("POST "+waitlist.APIPath, s.handleAPIRegister)
	mux.HandleFunc("GET "+waitlist.APIPath, s.handleAPICount)
	mux.HandleFunc("GET "+web.TypewriterPath, s.handleTypewriter)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET "+web.StaticPath, web.Static())
	return requestLogger(mux)
}

// responseRecorder captures the status and size for the request log.
type responseRecorder struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (r *responseRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
		r.ResponseWriter.WriteHeader(status)
	}
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := r.ResponseWriter.(http.Hijacker); ok {
		// A hijacked connection never writes a status through the recorder.
		r.status = http.StatusSwitchingProtocols
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("responseRecorder does not support hijacking")
}

func (r *responseRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// requestLogger assigns a request ID and logs every request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		recorder.Header().Set(RequestIDHeader, requestID)

		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, requestID))
		next.ServeHTTP(recorder, r)

		logging.LogHTTPRequest(requestID, r.RemoteAddr, r.Method, r.URL.Path,
			recorder.status, recorder.size, time.Since(start))
	})
}

func (s *Server) renderPage(w http.ResponseWriter, status int, form web.FormState) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := web.PageData{
		Site:  s.content.Get(),
		Form:  form,
		Ahead: s.roster.Ahead(),
		Frame: typewriter.Frame{},
	}
	if err := web.Render(w, data); err != nil {
		logging.Error("Failed to render page", zap.Error(err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, web.FormState{})
}

// handleForm is the no-script waitlist submission.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, web.FormState{Message: waitlist.ErrInvalidEmail.Error()})
		return
	}
	email := r.PostForm.Get("email")

	reg, err := s.register(r.Context(), email)
	switch {
	case err == nil:
		s.renderPage(w, http.StatusOK, web.FormStateFrom(reg.snap, ""))
	case waitlist.IsRejection(err):
		s.renderPage(w, http.StatusBadRequest, web.FormState{Email: email, Message: waitlist.GetShortErrorMessage(err)})
	default:
		s.renderPage(w, http.StatusServiceUnavailable, web.FormState{
			State:   waitlist.Failed,
			Email:   email,
			Message: waitlist.GetShortErrorMessage(err),
		})
	}
}

func (s *Server) handleAPIRegister(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
		return
	}

	var req waitlist.RegisterRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reg, err := s.register(r.Context(), req.Email)
	if err != nil {
		status := http.StatusServiceUnavailable
		if waitlist.IsRejection(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, waitlist.GetShortErrorMessage(err))
		return
	}

	status := http.StatusOK
	if reg.created {
		status = http.StatusCreated
	}
	writeJSON(w, status, waitlist.RegisterResponse{
		ID:       reg.entry.ID,
		Position: reg.entry.Position,
		Ahead:    s.roster.AheadOf(reg.entry),
		Existing: !reg.created,
		JoinedAt: reg.entry.JoinedAt,
	})
}

func (s *Server) handleAPICount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, waitlist.CountResponse{
		Count: s.roster.Count(),
		Ahead: s.roster.Ahead(),
	})
}

// Health is the body of GET /healthz.
type Health struct {
	Status   string       `json:"status"`
	Build    version.Info `json:"build"`
	Uptime   string       `json:"uptime"`
	Waitlist int          `json:"waitlist"`
	Streams  int          `json:"streams"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{
		Status:   "ok",
		Build:    version.Get(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Waitlist: s.roster.Count(),
		Streams:  s.hub.size(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, waitlist.ErrorResponse{Error: msg})
}
