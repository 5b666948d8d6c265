package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_inventory/internal/adapters/observability"
	"hotel_inventory/internal/app"
	"hotel_inventory/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Hotels *app.HotelCatalog
	Rooms  *app.RoomInventory
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/hotels", h.listHotels)
	s.mux.Post("/hotels", h.createHotel)
	s.mux.Get("/hotels/{id}", h.getHotel)
	s.mux.Put("/hotels/{id}", h.updateHotel)
	s.mux.Delete("/hotels/{id}", h.deleteHotel)

	s.mux.Get("/rooms", h.listRooms)
	s.mux.Post("/rooms", h.createRoom)
	s.mux.Get("/rooms/{id}", h.getRoom)
	s.mux.Put("/rooms/{id}", h.updateRoom)
	s.mux.Delete("/rooms/{id}", h.deleteRoom)
}

// ---- hotels ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "hotel")
	if !ok {
		return
	}
	out, err := h.Hotels.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.HotelInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Hotels.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveMutation("hotel", "create")
	w.Header().Set("Location", "/hotels/"+out.ID.String())
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "hotel")
	if !ok {
		return
	}
	var in app.HotelInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Hotels.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveMutation("hotel", "update")
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "hotel")
	if !ok {
		return
	}
	if err := h.Hotels.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveMutation("hotel", "delete")
	w.WriteHeader(http.StatusNoContent)
}

// ---- rooms ----

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	out, err := h.Rooms.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "room")
	if !ok {
		return
	}
	out, err := h.Rooms.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var in app.RoomInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Rooms.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveMutation("room", "create")
	w.Header().Set("Location", "/rooms/"+out.ID.String())
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "room")
	if !ok {
		return
	}
	var in app.RoomUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Rooms.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveMutation("room", "update")
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "room")
	if !ok {
		return
	}
	if err := h.Rooms.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveMutation("room", "delete")
	w.WriteHeader(http.StatusNoContent)
}

// ---- helpers ----

// pathID parses {id}. An id that is not a UUID cannot name any entity, so it is a 404.
func pathID(w http.ResponseWriter, r *http.Request, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, domain.NotFound(entity))
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		msg := fmt.Sprintf("%s must be %s", typeErr.Field, describeKind(typeErr.Type))
		return domain.InvalidField(typeErr.Field, "type", msg)
	case errors.Is(err, io.EOF):
		return errMalformed{msg: "request body is empty"}
	case errors.As(err, &tooBig):
		return errMalformed{msg: fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit)}
	default:
		return errMalformed{msg: "request body is not valid JSON"}
	}
}

func describeKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	default:
		return "a " + t.String()
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached answers a GET with a weak ETag, or 304 when the client already has it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "the request could not be completed", "internal", nil)
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}
