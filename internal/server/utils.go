package server

import (
	"encoding/json"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/llm"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/session"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/snapshot"
)

// SessionCookie names the cookie carrying the visitor's session id.
const SessionCookie = "co2_session"

// ensureSession resolves the request's session, creating one (and setting the
// cookie) when the id is missing or expired.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		id = cookie.Value
	}
	sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Thin aliases keep the handlers free of cross-package plumbing.

func buildWorkbook(series []aggregate.LineSeries, matrix aggregate.HeatmapMatrix) (*excelize.File, error) {
	return snapshot.BuildWorkbook(series, matrix)
}

func llmToHTML(markdown string) (string, error) {
	return llm.MarkdownToHTML(markdown)
}
