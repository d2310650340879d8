package adapters

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"rosiface/internal/ports"
	"rosiface/internal/types"
)

// HTTPQueryHandler exposes registry queries as a read-only JSON API.
type HTTPQueryHandler struct {
	Registry ports.RegistryPort
	Query    ports.QueryPort
	Metrics  http.Handler
}

func NewHTTPQueryHandler(registry ports.RegistryPort, query ports.QueryPort, metrics http.Handler) HTTPQueryHandler {
	return HTTPQueryHandler{Registry: registry, Query: query, Metrics: metrics}
}

func (h HTTPQueryHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}
	r.Get("/entries", h.findEntries)
	r.Route("/components", func(r chi.Router) {
		r.Get("/", h.listComponents)
		r.Route("/{component}", func(r chi.Router) {
			r.Get("/tracks", h.listTracks)
			r.Get("/validate", h.validate)
			r.Get("/diff", h.diff)
			r.Get("/tracks/{track}", h.resolve)
			r.Get("/tracks/{track}/names", h.names)
			r.Get("/tracks/{track}/interface/{category}", h.effectiveInterface)
		})
	})
	return r
}

func (h HTTPQueryHandler) listComponents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"components": nonNil(h.Registry.ListComponents())})
}

func (h HTTPQueryHandler) listTracks(w http.ResponseWriter, r *http.Request) {
	component := chi.URLParam(r, "component")
	tracks, err := h.Registry.ListTracks(component)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"component": component, "tracks": nonNil(tracks)})
}

func (h HTTPQueryHandler) resolve(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.Registry.Get(r.Context(), chi.URLParam(r, "component"), chi.URLParam(r, "track"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (h HTTPQueryHandler) effectiveInterface(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Query.EffectiveInterface(r.Context(),
		chi.URLParam(r, "component"),
		chi.URLParam(r, "track"),
		types.Category(chi.URLParam(r, "category")),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h HTTPQueryHandler) names(w http.ResponseWriter, r *http.Request) {
	names, err := h.Query.ResolveNames(r.Context(),
		chi.URLParam(r, "component"),
		chi.URLParam(r, "track"),
		r.URL.Query().Get("node"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"names": nonNil(names)})
}

func (h HTTPQueryHandler) diff(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.Query.Diff(r.Context(), chi.URLParam(r, "component"), query.Get("a"), query.Get("b"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"empty": result.Empty(), "diff": result})
}

func (h HTTPQueryHandler) validate(w http.ResponseWriter, r *http.Request) {
	report, err := h.Query.ValidateComponent(r.Context(), chi.URLParam(r, "component"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	tracks := make([]trackRecord, 0, len(report.Tracks))
	for _, track := range report.Tracks {
		tracks = append(tracks, newTrackRecord(report.Component, track))
	}
	status := http.StatusOK
	if len(report.Failures()) > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{"component": report.Component, "tracks": tracks})
}

func (h HTTPQueryHandler) findEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	matches, err := h.Query.FindEntries(r.Context(), query.Get("track"), query.Get("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": nonNil(matches)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	body := map[string]any{"error": err.Error()}
	if kind, ok := types.KindOf(err); ok {
		body["kind"] = string(kind)
	}
	var descErr *types.DescriptorError
	if errors.As(err, &descErr) {
		if len(descErr.Path) > 0 {
			body["path"] = descErr.Path
		}
		if len(descErr.Violations) > 0 {
			body["violations"] = descErr.Violations
		}
	}
	log.Ctx(r.Context()).Debug().Int("status", status).Err(err).Str("path", r.URL.Path).Msg("query failed")
	writeJSON(w, status, body)
}

func statusForError(err error) int {
	if kind, ok := types.KindOf(err); ok {
		switch kind {
		case types.ErrorKindUnknownComponent, types.ErrorKindUnknownTrack:
			return http.StatusNotFound
		case types.ErrorKindValidation:
			return http.StatusUnprocessableEntity
		case types.ErrorKindUnknownBase, types.ErrorKindCycleDetected:
			return http.StatusConflict
		default:
			return http.StatusBadRequest
		}
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return http.StatusBadRequest
	case errbuilder.CodeNotFound:
		return http.StatusNotFound
	case errbuilder.CodeFailedPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
