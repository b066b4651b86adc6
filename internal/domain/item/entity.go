package item

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("item name cannot be empty")
	ErrNegativePrice    = errors.New("item price cannot be negative")
	ErrNegativeQuantity = errors.New("item quantity cannot be negative")
)

// SnapshotContent is the purchasable part of a catalog item at one version.
// Once written under (itemID, version) it is never changed.
type SnapshotContent struct {
	Name        string
	Description string
	PriceCents  int64
	Images      []string
}

// CatalogItem is the mutable sellable listing. Version advances on content
// edits; quantity-only updates leave it alone so historical snapshots stay
// keyed correctly.
type CatalogItem struct {
	id          uuid.UUID
	sellerID    uuid.UUID
	name        string
	description string
	priceCents  int64
	quantity    int32
	version     int32
	images      []string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewCatalogItem(sellerID uuid.UUID, name, description string, priceCents int64, quantity int32, images []string) (*CatalogItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	return &CatalogItem{
		id:          uuid.New(),
		sellerID:    sellerID,
		name:        name,
		description: description,
		priceCents:  priceCents,
		quantity:    quantity,
		version:     1,
		images:      images,
	}, nil
}

func ReconstructCatalogItem(
	id, sellerID uuid.UUID,
	name, description string,
	priceCents int64,
	quantity, version int32,
	images []string,
	createdAt, updatedAt time.Time,
) *CatalogItem {
	return &CatalogItem{
		id:          id,
		sellerID:    sellerID,
		name:        name,
		description: description,
		priceCents:  priceCents,
		quantity:    quantity,
		version:     version,
		images:      images,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ApplyContentEdit replaces the sellable attributes and bumps the version.
// Callers only invoke it when at least one content field actually changed.
func (i *CatalogItem) ApplyContentEdit(name, description string, priceCents int64, images []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if priceCents < 0 {
		return ErrNegativePrice
	}

	i.name = name
	i.description = description
	i.priceCents = priceCents
	i.images = images
	i.version++
	return nil
}

// SetQuantity adjusts stock without a version bump.
func (i *CatalogItem) SetQuantity(quantity int32) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	i.quantity = quantity
	return nil
}

// ContentEquals reports whether the given fields match the current content,
// i.e. whether an update would be quantity-only.
func (i *CatalogItem) ContentEquals(name, description string, priceCents int64, images []string) bool {
	if i.name != strings.TrimSpace(name) || i.description != description || i.priceCents != priceCents {
		return false
	}
	if len(i.images) != len(images) {
		return false
	}
	for n, img := range i.images {
		if img != images[n] {
			return false
		}
	}
	return true
}

// SnapshotContent returns the content to freeze for the current version.
func (i *CatalogItem) SnapshotContent() SnapshotContent {
	return SnapshotContent{
		Name:        i.name,
		Description: i.description,
		PriceCents:  i.priceCents,
		Images:      i.images,
	}
}

func (i *CatalogItem) ID() uuid.UUID        { return i.id }
func (i *CatalogItem) SellerID() uuid.UUID  { return i.sellerID }
func (i *CatalogItem) Name() string         { return i.name }
func (i *CatalogItem) Description() string  { return i.description }
func (i *CatalogItem) PriceCents() int64    { return i.priceCents }
func (i *CatalogItem) Quantity() int32      { return i.quantity }
func (i *CatalogItem) Version() int32       { return i.version }
func (i *CatalogItem) Images() []string     { return i.images }
func (i *CatalogItem) CreatedAt() time.Time { return i.createdAt }
func (i *CatalogItem) UpdatedAt() time.Time { return i.updatedAt }
