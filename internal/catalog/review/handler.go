package review

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/catalog-api/internal/auth"
	"github.com/oakline/catalog-api/internal/platform/httpx"
)

// Handler exposes review routes nested under a product.
type Handler struct {
	logger  *slog.Logger
	service *Service
	mw      auth.Middleware
}

// NewHandler constructs the review Handler.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw}
}

// MountRoutes registers review routes; writing requires a valid token.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/reviews", h.list)
	r.With(h.mw.RequireUser).Post("/{id}/reviews", h.create)
}

type createRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	reviews, err := h.service.ListByProduct(r.Context(), productID)
	if err != nil {
		h.logger.Error("list reviews", slog.Any("error", err), slog.Int64("product_id", productID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, reviews)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}

	claims, _ := auth.ClaimsFromContext(r.Context())
	rev := Review{
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if claims != nil {
		rev.UserID = claims.UserID()
	}

	created, err := h.service.Create(r.Context(), rev)
	if err != nil {
		if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("create review", slog.Any("error", err), slog.Int64("product_id", productID))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func parseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return id, nil
}
