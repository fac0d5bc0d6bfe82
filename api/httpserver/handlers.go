package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dadepo/rpki-mcp/roa"
	"github.com/dadepo/rpki-mcp/rp"
)

// Handler mirrors the tool surface over plain HTTP.
type Handler struct {
	client *rp.Client
	log    zerolog.Logger
}

// NewHandler creates the HTTP handler over a gateway client.
func NewHandler(client *rp.Client, log zerolog.Logger) *Handler {
	return &Handler{client: client, log: log}
}

// RegisterRoutes registers one route per operation. The prefix is a
// wildcard: CIDR prefixes contain a slash, which a {prefix} placeholder
// would never match.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/status", h.status)
	r.Get("/api/validity/{asn}/*", h.validity)
	r.Get("/api/roas/{asn}", h.roas)
	r.Post("/api/roa", h.parseRoaFile)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.client.Status(r.Context())
	if err != nil {
		h.writeError(w, rp.AsError(err))
		return
	}
	h.writePayload(w, status)
}

func (h *Handler) validity(w http.ResponseWriter, r *http.Request) {
	validity, err := h.client.Validity(r.Context(), chi.URLParam(r, "asn"), chi.URLParam(r, "*"))
	if err != nil {
		h.writeError(w, rp.AsError(err))
		return
	}
	h.writePayload(w, validity)
}

func (h *Handler) roas(w http.ResponseWriter, r *http.Request) {
	roas, err := h.client.Roas(r.Context(), chi.URLParam(r, "asn"))
	if err != nil {
		h.writeError(w, rp.AsError(err))
		return
	}
	h.writePayload(w, roas)
}

func (h *Handler) parseRoaFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logAndWriteError(w, rp.NewError(rp.KindInput, rp.CodeNone, err.Error()))
		return
	}
	if req.Path == "" {
		h.logAndWriteError(w, rp.NewError(rp.KindInput, rp.CodeNone, "path is required"))
		return
	}

	parsed, err := roa.ParseFile(req.Path)
	if err != nil {
		h.logAndWriteError(w, rp.AsError(err))
		return
	}
	h.writePayload(w, parsed)
}

// writePayload sends the normalized structured payload of a typed result.
func (h *Handler) writePayload(w http.ResponseWriter, v any) {
	payload, err := rp.Structured(v)
	if err != nil {
		h.logAndWriteError(w, rp.AsError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}

// logAndWriteError is for failures detected in this handler; gateway-side
// failures arrive already logged by the client.
func (h *Handler) logAndWriteError(w http.ResponseWriter, gwErr *rp.Error) {
	h.log.Error().
		Str("kind", string(gwErr.Kind)).
		Int("code", gwErr.Code).
		Msg(gwErr.Message)
	h.writeError(w, gwErr)
}

func (h *Handler) writeError(w http.ResponseWriter, gwErr *rp.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusFor(gwErr))
	json.NewEncoder(w).Encode(map[string]any{
		"code":    gwErr.Code,
		"message": gwErr.Message,
	})
}

// httpStatusFor maps a typed error onto a response status: upstream failures
// relay the upstream's own status, everything else gets a class default.
func httpStatusFor(gwErr *rp.Error) int {
	switch gwErr.Kind {
	case rp.KindUpstream:
		if gwErr.Code >= 100 && gwErr.Code < 600 {
			return gwErr.Code
		}
		return http.StatusBadGateway
	case rp.KindInput:
		return http.StatusBadRequest
	case rp.KindNetwork, rp.KindDecode:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
