package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/internal/reviews"
	"github.com/shopworks/storefront-backend/pkg/config"
	"github.com/shopworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
	"github.com/shopworks/storefront-backend/pkg/pagination"
)

// WishlistChecker reports wishlist membership for the product page.
type WishlistChecker interface {
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	CatalogRepo *Repository
	ReviewRepo  *reviews.Repository
	Wishlist    WishlistChecker
	Config      config.CatalogConfig
}

// Service exposes the storefront's read-side browsing surface.
type Service interface {
	Home(ctx context.Context) (HomeDTO, error)
	ListProducts(ctx context.Context, filter ListFilter) (ListPageDTO, error)
	GetProduct(ctx context.Context, slug string, viewerID uuid.UUID) (ProductDetailDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
}

type service struct {
	catalogRepo *Repository
	reviewRepo  *reviews.Repository
	wishlist    WishlistChecker
	cfg         config.CatalogConfig
}

func NewService(params ServiceParams) (Service, error) {
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if params.Wishlist == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist checker is required")
	}
	return &service{
		catalogRepo: params.CatalogRepo,
		reviewRepo:  params.ReviewRepo,
		wishlist:    params.Wishlist,
		cfg:         params.Config,
	}, nil
}

// Home assembles the landing page: newest products, discounted products and
// the category list.
func (s *service) Home(ctx context.Context) (HomeDTO, error) {
	featured, err := s.catalogRepo.ListFeatured(ctx, s.cfg.FeaturedCount)
	if err != nil {
		return HomeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading featured products")
	}
	onSale, err := s.catalogRepo.ListOnSale(ctx, s.cfg.OnSaleCount)
	if err != nil {
		return HomeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading on-sale products")
	}
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return HomeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading categories")
	}

	return HomeDTO{
		Featured:   toSummaries(featured, nil),
		OnSale:     toSummaries(onSale, nil),
		Categories: toCategoryDTOs(categories),
	}, nil
}

// ListProducts returns one page of active products. An unknown category slug
// is a not-found, not an empty page.
func (s *service) ListProducts(ctx context.Context, filter ListFilter) (ListPageDTO, error) {
	var categoryDTO *CategoryDTO
	var categoryBySlug map[uuid.UUID]string

	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		category, err := s.catalogRepo.FindCategoryBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ListPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
			}
			return ListPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading category")
		}
		dto := toCategoryDTO(*category)
		categoryDTO = &dto
		categoryBySlug = map[uuid.UUID]string{category.ID: category.Slug}
		filter.CategorySlug = slug
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.PageSize
	}
	params := pagination.Normalize(pagination.Params{Page: filter.Page, PageSize: pageSize})

	products, total, err := s.catalogRepo.ListProducts(ctx, filter, params)
	if err != nil {
		return ListPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	return ListPageDTO{
		Products:   toSummaries(products, categoryBySlug),
		Category:   categoryDTO,
		Pagination: pagination.BuildMeta(params, total),
	}, nil
}

// GetProduct assembles the product page. viewerID may be uuid.Nil for
// anonymous visitors; the wishlist flag is false in that case.
func (s *service) GetProduct(ctx context.Context, slug string, viewerID uuid.UUID) (ProductDetailDTO, error) {
	product, category, err := s.catalogRepo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	related, err := s.catalogRepo.ListRelated(ctx, product.CategoryID, product.ID, s.cfg.RelatedProducts)
	if err != nil {
		return ProductDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading related products")
	}

	average, count, err := s.reviewRepo.Aggregate(ctx, product.ID)
	if err != nil {
		return ProductDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading review aggregate")
	}
	reviewRows, err := s.reviewRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return ProductDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading reviews")
	}

	inWishlist := false
	if viewerID != uuid.Nil {
		inWishlist, err = s.wishlist.Contains(ctx, viewerID, product.ID)
		if err != nil {
			return ProductDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking wishlist")
		}
	}

	categorySlugs := map[uuid.UUID]string{category.ID: category.Slug}

	return ProductDetailDTO{
		ID:             product.ID,
		Name:           product.Name,
		Slug:           product.Slug,
		Description:    product.Description,
		Price:          product.Price,
		DiscountPrice:  product.DiscountPrice,
		EffectivePrice: product.EffectivePrice(),
		OnSale:         product.DiscountPrice != nil,
		Stock:          product.Stock,
		InStock:        product.InStock(),
		Brand:          product.Brand,
		Category:       toCategoryDTO(*category),
		Images:         toImageDTOs(product.Images),
		AverageRating:  average,
		ReviewCount:    count,
		Reviews:        toReviewDTOs(reviewRows),
		Related:        toSummaries(related, categorySlugs),
		InWishlist:     inWishlist,
		CreatedAt:      product.CreatedAt,
	}, nil
}

// ListCategories returns the active browse categories.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading categories")
	}
	return toCategoryDTOs(categories), nil
}

func toSummaries(products []models.Product, categorySlugs map[uuid.UUID]string) []ProductSummary {
	summaries := make([]ProductSummary, 0, len(products))
	for _, product := range products {
		summaries = append(summaries, toSummary(product, categorySlugs[product.CategoryID]))
	}
	return summaries
}

// SummaryFromModel projects a single product row into its card shape. Used by
// consumers outside the catalog that already hold the row.
func SummaryFromModel(product models.Product) ProductSummary {
	return toSummary(product, "")
}

func toSummary(product models.Product, categorySlug string) ProductSummary {
	return ProductSummary{
		ID:             product.ID,
		Name:           product.Name,
		Slug:           product.Slug,
		Price:          product.Price,
		DiscountPrice:  product.DiscountPrice,
		EffectivePrice: product.EffectivePrice(),
		OnSale:         product.DiscountPrice != nil,
		InStock:        product.InStock(),
		Brand:          product.Brand,
		CategorySlug:   categorySlug,
		ThumbnailURL:   primaryImageURL(product.Images),
		CreatedAt:      product.CreatedAt,
	}
}

func primaryImageURL(images []models.ProductImage) *string {
	if len(images) == 0 {
		return nil
	}
	for _, image := range images {
		if image.IsPrimary {
			url := image.URL
			return &url
		}
	}
	url := images[0].URL
	return &url
}

func toImageDTOs(images []models.ProductImage) []ImageDTO {
	dtos := make([]ImageDTO, 0, len(images))
	for _, image := range images {
		dtos = append(dtos, ImageDTO{URL: image.URL, IsPrimary: image.IsPrimary})
	}
	return dtos
}

func toReviewDTOs(rows []reviews.Record) []ReviewDTO {
	dtos := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ReviewDTO{
			ID:        row.ID,
			UserID:    row.UserID,
			UserName:  strings.TrimSpace(row.FirstName + " " + row.LastName),
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		})
	}
	return dtos
}

func toCategoryDTOs(categories []models.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, toCategoryDTO(category))
	}
	return dtos
}

func toCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		ImageURL:    category.ImageURL,
	}
}
