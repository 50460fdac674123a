package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/storefront-backend/pkg/enums"
	"github.com/shopworks/storefront-backend/pkg/pagination"
)

// ListFilter narrows a catalog listing.
type ListFilter struct {
	CategorySlug string
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         enums.SortKey
	Page         int
	PageSize     int
}

// CategoryDTO is the browse-level category projection.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
}

// ProductSummary is the card-level product projection used by listings.
type ProductSummary struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	OnSale         bool             `json:"on_sale"`
	InStock        bool             `json:"in_stock"`
	Brand          string           `json:"brand,omitempty"`
	CategorySlug   string           `json:"category_slug"`
	ThumbnailURL   *string          `json:"thumbnail_url,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ReviewDTO is one customer review on the product page.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductDetailDTO is the full product page projection.
type ProductDetailDTO struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	OnSale         bool             `json:"on_sale"`
	Stock          int              `json:"stock"`
	InStock        bool             `json:"in_stock"`
	Brand          string           `json:"brand,omitempty"`
	Category       CategoryDTO      `json:"category"`
	Images         []ImageDTO       `json:"images"`
	AverageRating  float64          `json:"average_rating"`
	ReviewCount    int              `json:"review_count"`
	Reviews        []ReviewDTO      `json:"reviews"`
	Related        []ProductSummary `json:"related_products"`
	InWishlist     bool             `json:"in_wishlist"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ImageDTO is one gallery entry.
type ImageDTO struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// ListPageDTO is one page of catalog results.
type ListPageDTO struct {
	Products   []ProductSummary `json:"products"`
	Category   *CategoryDTO     `json:"category,omitempty"`
	Pagination pagination.Meta  `json:"pagination"`
}

// HomeDTO powers the storefront landing page.
type HomeDTO struct {
	Featured   []ProductSummary `json:"featured_products"`
	OnSale     []ProductSummary `json:"on_sale_products"`
	Categories []CategoryDTO    `json:"categories"`
}
