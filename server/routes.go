package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lingua/log"
)

func (s *Server) router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.index)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Put("/state/recognized", s.putRecognized)
		r.Put("/language", s.putLanguage)
		r.Get("/languages", s.getLanguages)

		r.Post("/capture/start", s.postCaptureStart)
		r.Post("/capture/stop", s.postCaptureStop)
		r.Get("/capture/stream", s.captureStream)

		r.Post("/translate", s.postTranslate)
		r.Get("/history", s.getHistory)

		r.Get("/export/document", s.exportDocument)
		r.Get("/export/text", s.exportText)
	})

	return r
}

type wrappedWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *wrappedWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *wrappedWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &wrappedWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Request(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}
