package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/openmart/shop_backend/internal/imagehost"
	"github.com/openmart/shop_backend/internal/logging"
	"github.com/openmart/shop_backend/internal/models"
	"github.com/openmart/shop_backend/internal/mykafka"
	"github.com/openmart/shop_backend/internal/repo"
	"github.com/openmart/shop_backend/internal/service/search"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrBadPrice      = errors.New("price must be a decimal number")
	ErrBadStock      = errors.New("stock must be an integer")
)

// imageFolder is the fixed media-host folder product images live under.
const imageFolder = "products"

type Service struct {
	Repo     *repo.GormRepo
	Host     imagehost.Host
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

// CreateInput carries the raw multipart form values; numeric fields are parsed
// here so a bad value is rejected instead of coerced.
type CreateInput struct {
	Name        string
	Description string
	Price       string
	Category    string
	Stock       string
}

type UpdateInput struct {
	Name        *string
	Description *string
	Price       *string
	Category    *string
	Stock       *string
}

func (s *Service) Create(ctx context.Context, in CreateInput, files []imagehost.File) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if in.Name == "" || in.Description == "" || in.Price == "" || in.Stock == "" || in.Category == "" {
		return nil, ErrMissingFields
	}
	price, err := strconv.ParseFloat(in.Price, 64)
	if err != nil {
		return nil, ErrBadPrice
	}
	stock, err := strconv.Atoi(in.Stock)
	if err != nil {
		return nil, ErrBadStock
	}

	images := make([]models.ProductImage, 0, len(files))
	for i, f := range files {
		url, err := s.Host.Upload(ctx, imageFolder, f)
		if err != nil {
			l.Error("image_upload_failed", "filename", f.Filename, "error", err)
			return nil, err
		}
		images = append(images, models.ProductImage{
			URL:       url,
			AltText:   f.Filename,
			IsPrimary: i == 0,
		})
	}

	category := in.Category
	prod := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Category:    &category,
		Stock:       stock,
		Images:      images,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		s.compensateUploads(ctx, images)
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":      "product_created",
		"productId": prod.ID,
		"name":      prod.Name,
	})
	s.index(ctx, prod)
	l.Info("create_success", "product_id", prod.ID)
	return prod, nil
}

func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

// Update applies the scalar patch first, then reconciles the image set:
// requested deletions go out before new uploads so the primary-image check
// sees the post-deletion state. Media-host deletes are best-effort; the DB
// batch delete runs regardless of their outcome.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, deleteIDs []string, files []imagehost.File) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPatch(prod, in); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}

	if len(deleteIDs) > 0 {
		// ids not belonging to this product are dropped by the scoped query
		images, err := s.Repo.ImagesByIDs(ctx, id, deleteIDs)
		if err != nil {
			return nil, err
		}
		for _, img := range images {
			publicID := imagehost.PublicID(imageFolder, img.URL)
			if err := s.Host.Delete(ctx, publicID); err != nil {
				l.Warn("image_host_delete_failed", "image_id", img.ID, "public_id", publicID, "error", err)
			}
		}
		if err := s.Repo.DeleteImages(ctx, id, deleteIDs); err != nil {
			return nil, err
		}
	}

	if len(files) > 0 {
		remaining, err := s.Repo.CountImages(ctx, id)
		if err != nil {
			return nil, err
		}
		newImages := make([]models.ProductImage, 0, len(files))
		for i, f := range files {
			url, err := s.Host.Upload(ctx, imageFolder, f)
			if err != nil {
				l.Error("image_upload_failed", "filename", f.Filename, "error", err)
				return nil, err
			}
			newImages = append(newImages, models.ProductImage{
				ProductID: id,
				URL:       url,
				AltText:   f.Filename,
				// a new primary is assigned only when no image survived step 2
				IsPrimary: i == 0 && remaining == 0,
			})
		}
		if err := s.Repo.CreateImages(ctx, newImages); err != nil {
			s.compensateUploads(ctx, newImages)
			return nil, err
		}
	}

	final, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":      "product_updated",
		"productId": final.ID,
		"name":      final.Name,
	})
	s.index(ctx, final)
	l.Info("update_success")
	return final, nil
}

// Delete removes the image rows and the product. Stored media-host objects are
// left behind on purpose; only the update path cleans the host.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, map[string]any{
		"type":      "product_deleted",
		"productId": id,
	})
	s.deindex(ctx, id)
	return nil
}

// compensateUploads removes already-uploaded objects when the DB commit that
// would have referenced them fails, so the host holds no orphans.
func (s *Service) compensateUploads(ctx context.Context, images []models.ProductImage) {
	l := logging.FromContext(ctx)
	for _, img := range images {
		publicID := imagehost.PublicID(imageFolder, img.URL)
		if err := s.Host.Delete(ctx, publicID); err != nil {
			l.Warn("upload_compensation_failed", "public_id", publicID, "error", err)
		}
	}
}

func applyPatch(prod *models.Product, in UpdateInput) error {
	if in.Name != nil {
		prod.Name = *in.Name
	}
	if in.Description != nil {
		prod.Description = *in.Description
	}
	if in.Price != nil {
		price, err := strconv.ParseFloat(*in.Price, 64)
		if err != nil {
			return ErrBadPrice
		}
		prod.Price = price
	}
	if in.Category != nil {
		category := *in.Category
		prod.Category = &category
	}
	if in.Stock != nil {
		stock, err := strconv.Atoi(*in.Stock)
		if err != nil {
			return ErrBadStock
		}
		prod.Stock = stock
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "product_events", event["productId"].(string), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", "product_events", "error", err)
	}
}

func (s *Service) index(ctx context.Context, prod *models.Product) {
	if s.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, s.ES, s.ESIndex, prod); err != nil {
		logging.FromContext(ctx).Error("es_index_failed", "product_id", prod.ID, "error", err)
	}
}

func (s *Service) deindex(ctx context.Context, id string) {
	if s.ES == nil {
		return
	}
	if err := search.DeleteProduct(ctx, s.ES, s.ESIndex, id); err != nil {
		logging.FromContext(ctx).Error("es_deindex_failed", "product_id", id, "error", err)
	}
}
