package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/catalog-api/internal/auth"
	"github.com/oakline/catalog-api/internal/platform/httpx"
)

type servicer interface {
	List(ctx context.Context, query ListQuery) (ListResponse, error)
	ListWithRatings(ctx context.Context) ([]RatedProduct, error)
	Get(ctx context.Context, id int64) (Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, req CreateProductRequest) (Product, error)
	Update(ctx context.Context, id int64, req UpdateProductRequest) (Product, error)
	Delete(ctx context.Context, id int64) error
}

// Handler exposes the product routes.
type Handler struct {
	logger  *slog.Logger
	service servicer
	mw      auth.Middleware
}

// NewHandler constructs the product Handler.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw}
}

// MountRoutes registers product routes. Reads are public; mutations require
// the admin claim.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/category", h.categories)
	r.Get("/{id}", h.get)

	r.With(h.mw.RequireAdmin).Post("/", h.create)
	r.With(h.mw.RequireAdmin).Put("/{id}", h.update)
	r.With(h.mw.RequireAdmin).Delete("/{id}", h.delete)
}

// list serves both read paths: without query parameters it returns the plain
// array with review aggregates; with any parameter it returns the paginated
// envelope.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if len(r.URL.Query()) == 0 {
		products, err := h.service.ListWithRatings(r.Context())
		if err != nil {
			h.logger.Error("list products with ratings", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, products)
		return
	}

	query, err := ParseListQuery(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	page, err := h.service.List(r.Context(), query)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("get product", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, decodeError(err))
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		if !errors.Is(err, httpx.ErrValidation) {
			h.logger.Error("create product", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, decodeError(err))
		return
	}

	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("update product", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("delete product", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return id, nil
}

// decodeError translates JSON decoding failures into validation errors with a
// field-level message when the body had the wrong primitive type.
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Errorf("%w: %s must be of type %s", httpx.ErrValidation, typeErr.Field, typeErr.Type)
	}
	return fmt.Errorf("%w: malformed JSON body", httpx.ErrValidation)
}
