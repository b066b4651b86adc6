package order

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyDisplayName   = errors.New("order display name cannot be empty")
	ErrNegativeTotalPrice = errors.New("order total price cannot be negative")
	ErrNoLines            = errors.New("order must contain at least one line")
	ErrInvalidAddress     = errors.New("shipping address is incomplete")
	ErrSameParty          = errors.New("buyer and seller cannot be the same user")
)

// ShippingAddress is the denormalized copy frozen onto the order at checkout.
// The buyer's address book can change afterwards without touching it.
type ShippingAddress struct {
	recipient  string
	postalCode string
	address1   string
	address2   *string
	phone      string
}

func NewShippingAddress(recipient, postalCode, address1 string, address2 *string, phone string) (ShippingAddress, error) {
	recipient = strings.TrimSpace(recipient)
	address1 = strings.TrimSpace(address1)
	if recipient == "" || postalCode == "" || address1 == "" {
		return ShippingAddress{}, ErrInvalidAddress
	}
	return ShippingAddress{
		recipient:  recipient,
		postalCode: postalCode,
		address1:   address1,
		address2:   address2,
		phone:      phone,
	}, nil
}

func (a ShippingAddress) Recipient() string  { return a.recipient }
func (a ShippingAddress) PostalCode() string { return a.postalCode }
func (a ShippingAddress) Address1() string   { return a.address1 }
func (a ShippingAddress) Address2() *string  { return a.address2 }
func (a ShippingAddress) Phone() string      { return a.phone }

// Line is one purchased position, pinned to an item snapshot version.
type Line struct {
	ItemID    uuid.UUID
	Version   int32
	Quantity  int32
	UnitPrice int64
}

// Order is one buyer's purchase from one seller. Status is mutated only
// through the transition command; everything else is immutable after creation.
type Order struct {
	id                  uuid.UUID
	buyerID             uuid.UUID
	sellerID            uuid.UUID
	status              Status
	displayName         string
	representativeImage *string
	totalPriceCents     int64
	shipTo              ShippingAddress
	lines               []Line
	createdAt           time.Time
	updatedAt           time.Time
}

func NewOrder(
	buyerID, sellerID uuid.UUID,
	displayName string,
	representativeImage *string,
	totalPriceCents int64,
	shipTo ShippingAddress,
	lines []Line,
) (*Order, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, ErrEmptyDisplayName
	}
	if totalPriceCents < 0 {
		return nil, ErrNegativeTotalPrice
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	if buyerID == sellerID {
		return nil, ErrSameParty
	}

	return &Order{
		id:                  uuid.New(),
		buyerID:             buyerID,
		sellerID:            sellerID,
		status:              StatusAwaiting,
		displayName:         displayName,
		representativeImage: representativeImage,
		totalPriceCents:     totalPriceCents,
		shipTo:              shipTo,
		lines:               lines,
	}, nil
}

func ReconstructOrder(
	id, buyerID, sellerID uuid.UUID,
	status Status,
	displayName string,
	representativeImage *string,
	totalPriceCents int64,
	shipTo ShippingAddress,
	lines []Line,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:                  id,
		buyerID:             buyerID,
		sellerID:            sellerID,
		status:              status,
		displayName:         displayName,
		representativeImage: representativeImage,
		totalPriceCents:     totalPriceCents,
		shipTo:              shipTo,
		lines:               lines,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) BuyerID() uuid.UUID           { return o.buyerID }
func (o *Order) SellerID() uuid.UUID          { return o.sellerID }
func (o *Order) Status() Status               { return o.status }
func (o *Order) DisplayName() string          { return o.displayName }
func (o *Order) RepresentativeImage() *string { return o.representativeImage }
func (o *Order) TotalPriceCents() int64       { return o.totalPriceCents }
func (o *Order) ShipTo() ShippingAddress      { return o.shipTo }
func (o *Order) Lines() []Line                { return o.lines }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
