package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
	"github.com/ilanmarket/listing-service/internal/listing/facet"
	"github.com/ilanmarket/listing-service/internal/listing/schema"
	"github.com/ilanmarket/listing-service/internal/listing/usecase"
	"github.com/ilanmarket/listing-service/internal/platform/metrics"
)

const maxUploadBytes = 10 << 20

// Handler exposes the listing operations over HTTP/JSON.
type Handler struct {
	write   *usecase.WriteUsecase
	read    *usecase.ReadUsecase
	assets  domain.AssetStore
	metrics *metrics.MetricsManager
	logger  *zap.Logger
}

func NewHandler(
	write *usecase.WriteUsecase,
	read *usecase.ReadUsecase,
	assets domain.AssetStore,
	m *metrics.MetricsManager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		write:   write,
		read:    read,
		assets:  assets,
		metrics: m,
		logger:  logger.Named("HTTPHandler"),
	}
}

func (h *Handler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var sub schema.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.write.CreateListing(r.Context(), ownerID, sub)
	if err != nil {
		h.writeError(w, "CreateListing", err)
		return
	}

	h.metrics.ListingsCreatedTotal.WithLabelValues(sub.Kind).Inc()
	h.writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	var sub schema.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.write.UpdateListing(r.Context(), id, sub, requestLocale(r)); err != nil {
		h.writeError(w, "UpdateListing", err)
		return
	}

	h.metrics.ListingUpdatesTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	if err := h.write.DeleteListing(r.Context(), id); err != nil {
		h.writeError(w, "DeleteListing", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	listing, err := h.read.GetListing(r.Context(), id, requestLocale(r))
	if err != nil {
		h.writeError(w, "GetListing", err)
		return
	}
	if listing == nil {
		http.Error(w, "listing not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	filters, err := parseListFilters(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	listings, err := h.read.GetListings(r.Context(), requestLocale(r), filters)
	if err != nil {
		h.writeError(w, "ListListings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) HandleGetListingCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.read.GetListingCounts(r.Context())
	if err != nil {
		h.writeError(w, "GetListingCounts", err)
		return
	}
	h.writeJSON(w, http.StatusOK, counts)
}

func (h *Handler) HandleIncrementView(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	if err := h.write.IncrementView(r.Context(), id); err != nil {
		h.writeError(w, "IncrementView", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleRepublishListing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	if err := h.write.Republish(r.Context(), id); err != nil {
		h.writeError(w, "RepublishListing", err)
		return
	}

	h.metrics.ListingRepublishesTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleCheckExpirations(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	archived, err := h.write.CheckExpirations(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, "CheckExpirations", err)
		return
	}

	h.metrics.ListingsArchivedTotal.Add(float64(archived))
	h.writeJSON(w, http.StatusOK, map[string]int64{"archived": archived})
}

// HandleUploadMedia accepts one multipart file and returns its stored URL.
// The URL is then referenced from a later create or update submission.
func (h *Handler) HandleUploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	url, err := h.assets.Store(r.Context(), header.Filename, data)
	if err != nil {
		h.writeError(w, "UploadMedia", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *Handler) listingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid listing id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps domain errors onto HTTP statuses. Validation errors carry
// their field map; everything else stays a generic message so storage details
// never leak to clients.
func (h *Handler) writeError(w http.ResponseWriter, handlerName string, err error) {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		h.metrics.ListingAPIErrorsTotal.WithLabelValues(handlerName, "validation").Inc()
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, domain.ErrListingNotFound):
		h.metrics.ListingAPIErrorsTotal.WithLabelValues(handlerName, "not_found").Inc()
		http.Error(w, "listing not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrKindImmutable):
		h.metrics.ListingAPIErrorsTotal.WithLabelValues(handlerName, "kind_immutable").Inc()
		http.Error(w, "listing kind cannot be changed", http.StatusConflict)
	default:
		h.metrics.ListingAPIErrorsTotal.WithLabelValues(handlerName, "internal").Inc()
		h.logger.Error("request failed", zap.String("handler", handlerName), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func requestLocale(r *http.Request) string {
	if locale := r.URL.Query().Get("locale"); locale != "" {
		return locale
	}
	return r.Header.Get("Accept-Language")
}

func parseListFilters(r *http.Request) (usecase.ListFilters, error) {
	q := r.URL.Query()
	var filters usecase.ListFilters

	if kind := q.Get("kind"); kind != "" {
		k := domain.ListingKind(kind)
		if !k.IsValid() {
			return filters, errors.New("unknown listing kind")
		}
		filters.Kind = &k
	}
	if featured := q.Get("featured"); featured != "" {
		v, err := strconv.ParseBool(featured)
		if err != nil {
			return filters, errors.New("featured must be a boolean")
		}
		filters.IsFeatured = &v
	}
	if currency := q.Get("currency"); currency != "" {
		c := domain.Currency(currency)
		if !c.IsValid() {
			return filters, errors.New("unknown currency")
		}
		filters.Currency = &c
	}

	var err error
	if filters.MinPrice, err = floatParam(q.Get("minPrice"), "minPrice"); err != nil {
		return filters, err
	}
	if filters.MaxPrice, err = floatParam(q.Get("maxPrice"), "maxPrice"); err != nil {
		return filters, err
	}

	filters.Query = facet.Filters{
		City:         q.Get("city"),
		ListingType:  q.Get("listingType"),
		Category:     q.Get("category"),
		PropertyType: q.Get("propertyType"),
		Brand:        q.Get("brand"),
	}
	if bedrooms := q.Get("bedrooms"); bedrooms != "" {
		filters.Query.Bedrooms = strings.Split(bedrooms, ",")
	}
	if condition := q.Get("condition"); condition != "" {
		filters.Query.Condition = strings.Split(condition, ",")
	}
	if filters.Query.MinYear, err = intParam(q.Get("minYear"), "minYear"); err != nil {
		return filters, err
	}
	if filters.Query.MaxYear, err = intParam(q.Get("maxYear"), "maxYear"); err != nil {
		return filters, err
	}
	if filters.Query.MinKm, err = intParam(q.Get("minKm"), "minKm"); err != nil {
		return filters, err
	}
	if filters.Query.MaxKm, err = intParam(q.Get("maxKm"), "maxKm"); err != nil {
		return filters, err
	}

	return filters, nil
}

func floatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &v, nil
}

func intParam(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New(name + " must be an integer")
	}
	return &v, nil
}
