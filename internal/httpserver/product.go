package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/openmart/shop_backend/internal/imagehost"
	"github.com/openmart/shop_backend/internal/logging"
	"github.com/openmart/shop_backend/internal/service/catalog"
)

type ProductHTTP struct {
	Svc *catalog.Service
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	form, err := c.MultipartForm()
	if err != nil {
		l.Warn("create_failed", "status", 400, "reason", "invalid multipart body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Request body is missing")
	}

	in := catalog.CreateInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Category:    c.FormValue("category"),
		Stock:       c.FormValue("stock"),
	}
	files, err := readImageFiles(form.File["images"])
	if err != nil {
		l.Error("create_failed", "status", 500, "reason", "cannot read attachment", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	prod, err := h.Svc.Create(ctx, in, files)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrMissingFields):
			l.Warn("create_failed", "status", 400, "reason", "missing required fields")
			return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, catalog.ErrBadPrice), errors.Is(err, catalog.ErrBadStock):
			l.Warn("create_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("create_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
		}
	}

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		l.Error("list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not fetch products")
	}

	return c.JSON(http.StatusOK, echo.Map{"productDetails": items})
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id := c.Param("id")
	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("get_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not fetch products")
	}

	return c.JSON(http.StatusOK, echo.Map{"productDetails": prod})
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id := c.Param("id")
	form, err := c.MultipartForm()
	if err != nil {
		l.Warn("update_failed", "status", 400, "reason", "invalid multipart body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Request body is missing")
	}

	in := catalog.UpdateInput{
		Name:        formValuePtr(form, "name"),
		Description: formValuePtr(form, "description"),
		Price:       formValuePtr(form, "price"),
		Category:    formValuePtr(form, "category"),
		Stock:       formValuePtr(form, "stock"),
	}

	var deleteIDs []string
	if raw := c.FormValue("imagesToDelete"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &deleteIDs); err != nil {
			// a malformed delete list never aborts the update
			l.Warn("update_bad_delete_list", "error", err)
			deleteIDs = nil
		}
	}

	files, err := readImageFiles(form.File["images"])
	if err != nil {
		l.Error("update_failed", "status", 500, "reason", "cannot read attachment", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating product")
	}

	prod, err := h.Svc.Update(ctx, id, in, deleteIDs, files)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("update_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		case errors.Is(err, catalog.ErrBadPrice), errors.Is(err, catalog.ErrBadStock):
			l.Warn("update_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("update_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Error updating product: "+err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Product updated successfully",
		"updatedProduct": prod,
	})
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id := c.Param("id")
	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting product")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

func formValuePtr(form *multipart.Form, key string) *string {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

func readImageFiles(headers []*multipart.FileHeader) ([]imagehost.File, error) {
	files := make([]imagehost.File, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, imagehost.File{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
