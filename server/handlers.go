package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lingua/export"
	"lingua/log"
	"lingua/session"
	"lingua/translator"
)

type stateResponse struct {
	Recognized string `json:"recognized"`
	Translated string `json:"translated"`
	Language   string `json:"language"`
	Capturing  bool   `json:"capturing"`
	History    int    `json:"history"`
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, stateResponse{
		Recognized: s.st.Recognized(),
		Translated: s.st.Translated(),
		Language:   s.st.Target(),
		Capturing:  s.captureRunning(),
		History:    s.st.HistoryLen(),
	}, http.StatusOK)
}

// putRecognized lets the user edit the transcript between captures.
func (s *Server) putRecognized(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s.st.SetRecognized(body.Text)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) putLanguage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.st.SetTarget(body.Language); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonResponse(w, map[string]string{"language": body.Language}, http.StatusOK)
}

func (s *Server) getLanguages(w http.ResponseWriter, r *http.Request) {
	type lang struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	out := make([]lang, 0, 6)
	for _, l := range session.Languages() {
		out = append(out, lang{Code: l.Code, Name: l.Name})
	}
	jsonResponse(w, out, http.StatusOK)
}

func (s *Server) postCaptureStart(w http.ResponseWriter, r *http.Request) {
	if err := s.startCapture(); err != nil {
		if errors.Is(err, errCaptureRunning) {
			jsonError(w, err.Error(), http.StatusConflict)
			return
		}
		jsonError(w, "failed to start capture: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "capturing"}, http.StatusOK)
}

// postCaptureStop is idempotent; stopping an idle session is a no-op.
func (s *Server) postCaptureStop(w http.ResponseWriter, r *http.Request) {
	s.stopCaptureLocked()
	jsonResponse(w, map[string]string{"status": "stopping"}, http.StatusOK)
}

// captureStream pushes transcript events over SSE until the client goes away.
func (s *Server) captureStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) postTranslate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	out, err := s.st.Translate(r.Context(), s.tr)
	if err != nil {
		if errors.Is(err, translator.ErrEmptyInput) {
			jsonError(w, "no text to translate", http.StatusBadRequest)
			return
		}
		log.Errorf("translation failed: %v", err)
		jsonError(w, "translation service error: "+err.Error(), http.StatusBadGateway)
		return
	}

	lang := s.st.Target()
	log.TranslationDone(lang, len(out), time.Since(start))
	jsonResponse(w, map[string]string{
		"translated": out,
		"language":   lang,
	}, http.StatusOK)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	history := s.st.History()
	if history == nil {
		history = []session.Record{}
	}
	jsonResponse(w, history, http.StatusOK)
}

func (s *Server) exportDocument(w http.ResponseWriter, r *http.Request) {
	data, err := export.Document(s.st)
	if err != nil {
		log.Errorf("document export failed: %v", err)
		jsonError(w, "failed to build document", http.StatusInternalServerError)
		return
	}
	name := export.DocumentFilename(time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func (s *Server) exportText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.TextFilename))
	w.Write(export.Text(s.st))
}

func jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonResponse(w, map[string]string{"error": msg}, status)
}
