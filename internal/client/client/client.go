package client

import (
	"context"

	"github.com/parceltrack/console/internal/client/models"
)

type Client interface {
	Me(ctx context.Context) (models.User, error)

	ListShipments(ctx context.Context, q models.ShipmentQuery) (models.Page[models.ShipmentListItem], error)
	GetShipment(ctx context.Context, id int64) (models.Shipment, error)
	CreateShipment(ctx context.Context, data models.ShipmentCreateData) (models.Shipment, error)
	AddStatusUpdate(ctx context.Context, id int64, data models.StatusUpdateData) (models.Shipment, error)
	ShipmentStats(ctx context.Context) (models.ShipmentStats, error)
	Analytics(ctx context.Context, days int) (models.AnalyticsData, error)

	ListInvoices(ctx context.Context, q models.InvoiceQuery) (models.Page[models.InvoiceListItem], error)
	GetInvoice(ctx context.Context, id int64) (models.Invoice, error)
	CreateInvoice(ctx context.Context, data models.InvoiceCreateData) (models.Invoice, error)
	UpdateInvoicePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus) (models.Invoice, error)

	Track(ctx context.Context, code string) (models.TrackingResult, error)
	SendParcel(ctx context.Context, data models.ShipmentCreateData) (models.Shipment, error)
	MyShipments(ctx context.Context) (models.Page[models.ShipmentListItem], error)
}
