package fleet

import (
	"time"
)

type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "available"
	DriverStatusOnLoad    DriverStatus = "on_load"
	DriverStatusOffDuty   DriverStatus = "off_duty"
)

type Driver struct {
	ID                int64        `db:"id,primaryKey,autoIncrement" json:"id"`
	Name              string       `db:"name" json:"name"`
	Phone             string       `db:"phone" json:"phone"`
	Status            DriverStatus `db:"status" json:"status"`
	CurrentLoadID     *int64       `db:"current_load_id" json:"currentLoadId"`
	CurrentLat        *float64     `db:"current_lat" json:"currentLat"`
	CurrentLng        *float64     `db:"current_lng" json:"currentLng"`
	LocationUpdatedAt *time.Time   `db:"location_updated_at" json:"locationUpdatedAt"`
	CreatedAt         time.Time    `db:"created_at,readOnly" json:"createdAt"`
}

// MapMarker is a driver position for the dispatch map.
type MapMarker struct {
	DriverID  int64        `json:"driverId"`
	Name      string       `json:"name"`
	Status    DriverStatus `json:"status"`
	Lat       float64      `json:"lat"`
	Lng       float64      `json:"lng"`
	UpdatedAt *time.Time   `json:"updatedAt"`
}

type LoadStatus string

const (
	LoadStatusPending   LoadStatus = "pending"
	LoadStatusAssigned  LoadStatus = "assigned"
	LoadStatusPickedUp  LoadStatus = "picked_up"
	LoadStatusInTransit LoadStatus = "in_transit"
	LoadStatusDelivered LoadStatus = "delivered"
	LoadStatusCancelled LoadStatus = "cancelled"
)

var loadTransitions = map[LoadStatus][]LoadStatus{
	LoadStatusPending:   {LoadStatusAssigned, LoadStatusCancelled},
	LoadStatusAssigned:  {LoadStatusPickedUp, LoadStatusCancelled},
	LoadStatusPickedUp:  {LoadStatusInTransit, LoadStatusDelivered},
	LoadStatusInTransit: {LoadStatusDelivered},
}

// CanBecome reports whether a load in status may move to next.
func (status LoadStatus) CanBecome(next LoadStatus) bool {
	for _, allowed := range loadTransitions[status] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Closed loads no longer hold a driver.
func (status LoadStatus) Closed() bool {
	return status == LoadStatusDelivered || status == LoadStatusCancelled
}

type Load struct {
	ID          int64      `db:"id,primaryKey,autoIncrement" json:"id"`
	Reference   string     `db:"reference" json:"reference"`
	CustomerID  int64      `db:"customer_id" json:"customerId"`
	DriverID    *int64     `db:"driver_id" json:"driverId"`
	Status      LoadStatus `db:"status" json:"status"`
	Origin      string     `db:"origin" json:"origin"`
	Destination string     `db:"destination" json:"destination"`
	Stops       []string   `db:"stops" json:"stops"`
	Rate        float64    `db:"rate" json:"rate"`
	PickupAt    time.Time  `db:"pickup_at" json:"pickupAt"`
	DeliveredAt *time.Time `db:"delivered_at" json:"deliveredAt"`
	CreatedAt   time.Time  `db:"created_at,readOnly" json:"createdAt"`
}

// LoadEvent is published whenever a load changes hands or status.
type LoadEvent struct {
	LoadID     int64      `json:"loadId"`
	DriverID   *int64     `json:"driverId"`
	Status     LoadStatus `json:"status"`
	OccurredAt time.Time  `json:"occurredAt"`
}

type Customer struct {
	ID             int64  `db:"id,primaryKey,autoIncrement" json:"id"`
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	Phone          string `db:"phone" json:"phone"`
	BillingAddress string `db:"billing_address" json:"billingAddress"`
	Active         bool   `db:"active" json:"active"`
}

type InvoiceStatus string

const (
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

type Invoice struct {
	ID            int64         `db:"id,primaryKey,autoIncrement" json:"id"`
	LoadID        int64         `db:"load_id" json:"loadId"`
	InvoiceNumber string        `db:"invoice_number" json:"invoiceNumber"`
	Amount        float64       `db:"amount" json:"amount"`
	Status        InvoiceStatus `db:"status" json:"status"`
	DueDate       time.Time     `db:"due_date" json:"dueDate"`
	PaidAt        *time.Time    `db:"paid_at" json:"paidAt"`
	CreatedAt     time.Time     `db:"created_at,readOnly" json:"createdAt"`
}

type DocumentKind string

const (
	DocumentKindBillOfLading     DocumentKind = "bol"
	DocumentKindProofOfDelivery  DocumentKind = "pod"
	DocumentKindRateConfirmation DocumentKind = "rate_confirmation"
	DocumentKindLumperReceipt    DocumentKind = "lumper_receipt"
)

func (kind DocumentKind) Valid() bool {
	switch kind {
	case DocumentKindBillOfLading, DocumentKindProofOfDelivery, DocumentKindRateConfirmation, DocumentKindLumperReceipt:
		return true
	}

	return false
}

type LoadDocument struct {
	ID         int64        `db:"id,primaryKey,autoIncrement" json:"id"`
	LoadID     int64        `db:"load_id" json:"loadId"`
	Kind       DocumentKind `db:"kind" json:"kind"`
	Name       string       `db:"name" json:"name"`
	StorageKey string       `db:"storage_key" json:"-"`
	CreatedAt  time.Time    `db:"created_at,readOnly" json:"createdAt"`
}
