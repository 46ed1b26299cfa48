package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/storage"
)

// Pagination query parameters and headers.
const (
	PageParam        = "_page"
	LimitParam       = "_limit"
	TotalCountHeader = "X-Total-Count"

	// DefaultLimit applies when _page is given without _limit.
	DefaultLimit = 10
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// errInvalidPagination is reported for a non-numeric or non-positive
// _page or _limit.
var errInvalidPagination = errors.New("_page and _limit must be positive integers")

// CollectionHandler serves the REST endpoints of one record collection.
type CollectionHandler[T model.Entity] struct {
	responder
	path     string
	noun     string
	storage  storage.Storage[T]
	validate func(*T) error
}

// NewCollectionHandler creates a handler serving path (for example
// "/products"). noun names one record in error messages.
func NewCollectionHandler[T model.Entity](
	path, noun string,
	s storage.Storage[T],
	validate func(*T) error,
	logger *zap.Logger,
) *CollectionHandler[T] {
	return &CollectionHandler[T]{
		responder: responder{logger: logger},
		path:      path,
		noun:      noun,
		storage:   s,
		validate:  validate,
	}
}

// NewProductHandler creates the /products handler.
func NewProductHandler(s storage.Storage[model.Product], logger *zap.Logger) *CollectionHandler[model.Product] {
	return NewCollectionHandler("/products", "product", s, (*model.Product).Validate, logger)
}

// NewUserHandler creates the /users handler.
func NewUserHandler(s storage.Storage[model.User], logger *zap.Logger) *CollectionHandler[model.User] {
	return NewCollectionHandler("/users", "user", s, (*model.User).Validate, logger)
}

// RegisterRoutes registers the collection routes with the router.
func (h *CollectionHandler[T]) RegisterRoutes(router *mux.Router) {
	item := h.path + "/{id}"
	router.HandleFunc(h.path, h.List).Methods(http.MethodGet)
	router.HandleFunc(h.path, h.Create).Methods(http.MethodPost)
	router.HandleFunc(item, h.Get).Methods(http.MethodGet)
	router.HandleFunc(item, h.Update).Methods(http.MethodPut)
	router.HandleFunc(item, h.Delete).Methods(http.MethodDelete)
}

// List handles GET {path} requests. With _page or _limit it returns one page;
// otherwise every record. X-Total-Count always carries the collection size.
func (h *CollectionHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit, paged, err := parsePagination(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		records []T
		total   int
	)
	if paged {
		records, total, err = h.storage.Page(ctx, page, limit)
	} else {
		records, err = h.storage.List(ctx)
		total = len(records)
	}
	if err != nil {
		h.logger.Error("failed to list records", zap.String("collection", h.path), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to retrieve "+h.noun+"s")
		return
	}

	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	h.writeJSON(w, http.StatusOK, records)
}

// Get handles GET {path}/{id} requests.
func (h *CollectionHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	rec, err := h.storage.Get(r.Context(), id)
	if err != nil {
		h.handleStorageError(w, err, "get")
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

// Create handles POST {path} requests.
func (h *CollectionHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	rec, err := h.storage.Create(r.Context(), input)
	if err != nil {
		h.handleStorageError(w, err, "create")
		return
	}

	h.writeJSON(w, http.StatusCreated, rec)
}

// Update handles PUT {path}/{id} requests. The ID in the body is ignored.
func (h *CollectionHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	rec, err := h.storage.Update(r.Context(), id, input)
	if err != nil {
		h.handleStorageError(w, err, "update")
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE {path}/{id} requests. It answers with an empty JSON
// object like json-server does.
func (h *CollectionHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.storage.Delete(r.Context(), id); err != nil {
		h.handleStorageError(w, err, "delete")
		return
	}

	h.writeJSON(w, http.StatusOK, struct{}{})
}

// pathID parses the {id} route variable, writing a 400 response on failure.
func (h *CollectionHandler[T]) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid "+h.noun+" ID")
		return 0, false
	}
	return id, true
}

// decode reads and validates a record from the request body, writing a 400
// response on failure.
func (h *CollectionHandler[T]) decode(w http.ResponseWriter, r *http.Request) (*T, bool) {
	var input T
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.String("collection", h.path), zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	if err := h.validate(&input); err != nil {
		h.logger.Warn("validation failed", zap.String("collection", h.path), zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return &input, true
}

// handleStorageError writes the HTTP response for a storage error.
func (h *CollectionHandler[T]) handleStorageError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.writeError(w, http.StatusNotFound, h.noun+" not found")
	case errors.Is(err, storage.ErrInvalidID):
		h.writeError(w, http.StatusBadRequest, "invalid "+h.noun+" ID")
	default:
		h.logger.Error("storage operation failed",
			zap.String("collection", h.path),
			zap.String("operation", operation),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parsePagination reads _page and _limit. paged is false when neither is
// present.
func parsePagination(r *http.Request) (page, limit int, paged bool, err error) {
	query := r.URL.Query()
	rawPage, rawLimit := query.Get(PageParam), query.Get(LimitParam)
	if rawPage == "" && rawLimit == "" {
		return 0, 0, false, nil
	}

	page, limit = 1, DefaultLimit
	if rawPage != "" {
		if page, err = strconv.Atoi(rawPage); err != nil || page < 1 {
			return 0, 0, false, errInvalidPagination
		}
	}
	if rawLimit != "" {
		if limit, err = strconv.Atoi(rawLimit); err != nil || limit < 1 {
			return 0, 0, false, errInvalidPagination
		}
	}

	return page, limit, true, nil
}
