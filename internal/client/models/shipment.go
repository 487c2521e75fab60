// Package models defines the DTOs exchanged with the parcel API and the small
// pieces of domain logic the front-ends share (status catalogue, invoice
// arithmetic).
package models

// StatusUpdate is one entry of a shipment's timeline.
type StatusUpdate struct {
	ID            int64  `json:"id"`
	Status        Status `json:"status"`
	StatusDisplay string `json:"status_display"`
	Location      string `json:"location"`
	Notes         string `json:"notes"`
	CreatedAt     string `json:"created_at"`
}

// Shipment is the full staff view of a parcel.
type Shipment struct {
	ID            int64          `json:"id"`
	TrackingCode  string         `json:"tracking_code"`
	SenderName    string         `json:"sender_name"`
	SenderEmail   string         `json:"sender_email"`
	SenderPhone   string         `json:"sender_phone"`
	ReceiverName  string         `json:"receiver_name"`
	ReceiverEmail string         `json:"receiver_email"`
	ReceiverPhone string         `json:"receiver_phone"`
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	Weight        string         `json:"weight"`
	Description   string         `json:"description"`
	CurrentStatus Status         `json:"current_status"`
	StatusDisplay string         `json:"status_display"`
	StatusUpdates []StatusUpdate `json:"status_updates"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

// ShipmentListItem is a row of the shipments table.
type ShipmentListItem struct {
	ID            int64  `json:"id"`
	TrackingCode  string `json:"tracking_code"`
	SenderName    string `json:"sender_name"`
	ReceiverName  string `json:"receiver_name"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	CurrentStatus Status `json:"current_status"`
	StatusDisplay string `json:"status_display"`
	CreatedAt     string `json:"created_at"`
}

// TrackingResult is the public view returned for a tracking code.
type TrackingResult struct {
	TrackingCode  string         `json:"tracking_code"`
	SenderName    string         `json:"sender_name"`
	ReceiverName  string         `json:"receiver_name"`
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	Weight        string         `json:"weight"`
	CurrentStatus Status         `json:"current_status"`
	StatusDisplay string         `json:"status_display"`
	StatusUpdates []StatusUpdate `json:"status_updates"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

// ShipmentCreateData is the payload of both the staff "new shipment" form
// and the public "send a parcel" form.
type ShipmentCreateData struct {
	SenderName    string `json:"sender_name"`
	SenderEmail   string `json:"sender_email"`
	SenderPhone   string `json:"sender_phone"`
	ReceiverName  string `json:"receiver_name"`
	ReceiverEmail string `json:"receiver_email"`
	ReceiverPhone string `json:"receiver_phone"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Weight        string `json:"weight"`
	Description   string `json:"description"`
}

type StatusUpdateData struct {
	Status   Status `json:"status"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// ShipmentQuery filters the shipments list. Zero fields are omitted.
type ShipmentQuery struct {
	Search   string
	Status   Status
	Ordering string
	Page     int
}

// Page is the paginated envelope used by list endpoints.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// PageSize is the number of results the API returns per page.
const PageSize = 20

// TotalPages derives the page count from Count.
func (p Page[T]) TotalPages() int {
	return (p.Count + PageSize - 1) / PageSize
}
