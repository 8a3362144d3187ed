package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/aloft-stays/internal/config"
	"github.com/iliyamo/aloft-stays/internal/model"
	"github.com/iliyamo/aloft-stays/internal/storage"
)

// ListingHandler lets any signed-in user put a home up for rent.
type ListingHandler struct {
	Properties PropertyStore
	Images     ImageUploader // nil when image storage is not configured
	Storage    config.StorageConfig
	Log        *logrus.Logger
}

// UploadImages handles POST /v1/uploads/images.  Files are read from the
// multipart field "images" and stored under random names.
func (h *ListingHandler) UploadImages(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return unauthorized(c)
	}
	if h.Images == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "image uploads are not configured"})
	}
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart form required"})
	}
	files := form.File["images"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "images is required"})
	}
	if h.Storage.MaxFiles > 0 && len(files) > h.Storage.MaxFiles {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many images"})
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if h.Storage.MaxFileBytes > 0 && fh.Size > h.Storage.MaxFileBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": fh.Filename + " is too large"})
		}
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read " + fh.Filename})
		}
		url, err := h.Images.Upload(c.Request().Context(), f, fh.Filename)
		_ = f.Close()
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fh.Filename + ": unsupported image type"})
		}
		if err != nil {
			h.Log.WithError(err).WithField("filename", fh.Filename).Error("image upload failed")
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "Failed to upload images."})
		}
		urls = append(urls, url)
	}
	return c.JSON(http.StatusOK, echo.Map{"urls": urls})
}

type createPropertyReq struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Location       string   `json:"location" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required"`
	Price          float64  `json:"price" validate:"gt=0"`
	Amenities      []string `json:"amenities"`
	Images         []string `json:"images" validate:"dive,url"`
	SubaccountCode string   `json:"host_subaccount_code" validate:"max=64"`
}

// CreateProperty handles POST /v1/properties.  The first image becomes the
// cover; new listings start unrated and are never guest favourites.
func (h *ListingHandler) CreateProperty(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req createPropertyReq
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if len(req.Images) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please upload at least one image of your property."})
	}

	amenities := make([]string, 0, len(req.Amenities))
	for _, a := range req.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			amenities = append(amenities, a)
		}
	}
	p := model.Property{
		Title:       strings.TrimSpace(req.Title),
		Location:    strings.TrimSpace(req.Location),
		Description: req.Description,
		Price:       req.Price,
		Rating:      0,
		Amenities:   amenities,
		ImageURL:    req.Images[0],
		Images:      req.Images,
		HostUserID:  &uid,
	}
	if code := strings.TrimSpace(req.SubaccountCode); code != "" {
		p.HostSubaccountCode = &code
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Properties.Create(ctx, &p); err != nil {
		h.Log.WithError(err).WithField("host_user_id", uid).Error("create property failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create listing."})
	}
	return c.JSON(http.StatusCreated, p)
}
