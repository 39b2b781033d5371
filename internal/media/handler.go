package media

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/catalog-api/internal/auth"
	"github.com/oakline/catalog-api/internal/platform/httpx"
)

// memory budget for multipart parsing; larger parts spill to temp files.
const multipartMemory = 8 << 20

// Handler exposes the picture upload endpoint.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	mw       auth.Middleware
	maxBytes int64
}

// NewHandler constructs the media Handler.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware, maxBytes int64) *Handler {
	return &Handler{logger: logger, service: service, mw: mw, maxBytes: maxBytes}
}

// MountRoutes registers the upload route; admin only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.mw.RequireAdmin).Post("/upload-picture", h.upload)
}

type uploadResponse struct {
	ProductID int64  `json:"product_id"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "multipart form with an image file is required")
		return
	}
	// Temporary form files are released on every exit path.
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	productID, err := strconv.ParseInt(r.FormValue("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "product_id is required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "image file is required")
		return
	}
	defer file.Close()

	url, publicID, err := h.service.AttachImage(r.Context(), productID, file, header.Size)
	if err != nil {
		if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("attach image", slog.Any("error", err), slog.Int64("product_id", productID))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, uploadResponse{ProductID: productID, URL: url, PublicID: publicID})
}
