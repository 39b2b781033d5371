package media

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/catalog-api/internal/auth"
	"github.com/oakline/catalog-api/internal/platform/httpx"
	_ "github.com/oakline/catalog-api/testing"
)

func newUploadRouter(t *testing.T, gw Gateway, images ProductImages) (chi.Router, string) {
	t.Helper()
	tokens := auth.NewTokenManager("secret", time.Hour, nil)
	mw := auth.Middleware{Tokens: tokens, Logger: discardLogger()}
	handler := NewHandler(discardLogger(), NewService(gw, images, nil, discardLogger()), mw, 1<<20)

	r := chi.NewRouter()
	r.Route("/products", handler.MountRoutes)

	token, _, err := tokens.Issue(1, true)
	require.NoError(t, err)
	return r, "Bearer " + token
}

func multipartBody(t *testing.T, productID string, fileField string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if productID != "" {
		require.NoError(t, writer.WriteField("product_id", productID))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, "photo.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadPicture(t *testing.T) {
	gw := &stubGateway{url: "https://cdn.example.com/products/a.png", publicID: "products/a.png"}
	images := &stubImages{}
	router, bearer := newUploadRouter(t, gw, images)

	body, contentType := multipartBody(t, "5", "image", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/products/upload-picture", body)
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"product_id":5`)
	assert.Contains(t, rec.Body.String(), "products/a.png")
	assert.Equal(t, int64(5), images.id)
}

func TestUploadPictureRequiresAdmin(t *testing.T) {
	router, _ := newUploadRouter(t, &stubGateway{}, &stubImages{})

	body, contentType := multipartBody(t, "5", "image", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/products/upload-picture", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadPictureRequiresProductID(t *testing.T) {
	router, bearer := newUploadRouter(t, &stubGateway{}, &stubImages{})

	body, contentType := multipartBody(t, "", "image", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/products/upload-picture", body)
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "product_id is required")
}

func TestUploadPictureRequiresFile(t *testing.T) {
	router, bearer := newUploadRouter(t, &stubGateway{}, &stubImages{})

	body, contentType := multipartBody(t, "5", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/products/upload-picture", body)
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "image file is required")
}

func TestUploadPictureUnknownProductIs404(t *testing.T) {
	gw := &stubGateway{url: "u", publicID: "products/orphan.png"}
	images := &stubImages{err: httpx.ErrNotFound}
	router, bearer := newUploadRouter(t, gw, images)

	body, contentType := multipartBody(t, "99", "image", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/products/upload-picture", body)
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
