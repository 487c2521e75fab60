package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/parceltrack/console/internal/client/models"
	"github.com/parceltrack/console/internal/client/rest"
	"github.com/parceltrack/console/internal/common"
	"github.com/parceltrack/console/internal/session"
)

// HTTPClient implements Client over the REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient sends every call through m.
func NewHTTPClient(m *session.Manager) *HTTPClient {
	return &HTTPClient{baseURL: m.BaseURL(), http: m.HTTPClient()}
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, common.MePath, nil, &u)
	return u, err
}

func (c *HTTPClient) ListShipments(ctx context.Context, q models.ShipmentQuery) (models.Page[models.ShipmentListItem], error) {
	params := url.Values{}
	setParam(params, "search", q.Search)
	setParam(params, "status", string(q.Status))
	setParam(params, "ordering", q.Ordering)
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	var page models.Page[models.ShipmentListItem]
	err := c.do(ctx, http.MethodGet, withQuery("/shipments/", params), nil, &page)
	return page, err
}

func (c *HTTPClient) GetShipment(ctx context.Context, id int64) (models.Shipment, error) {
	var s models.Shipment
	if err := validID(id); err != nil {
		return s, err
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/shipments/%d/", id), nil, &s)
	return s, err
}

func (c *HTTPClient) CreateShipment(ctx context.Context, data models.ShipmentCreateData) (models.Shipment, error) {
	var s models.Shipment
	err := c.do(ctx, http.MethodPost, "/shipments/", data, &s)
	return s, err
}

// AddStatusUpdate appends a timeline entry and returns the updated shipment.
func (c *HTTPClient) AddStatusUpdate(ctx context.Context, id int64, data models.StatusUpdateData) (models.Shipment, error) {
	var s models.Shipment
	if err := validID(id); err != nil {
		return s, err
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/shipments/%d/status/", id), data, &s)
	return s, err
}

func (c *HTTPClient) ShipmentStats(ctx context.Context) (models.ShipmentStats, error) {
	var st models.ShipmentStats
	err := c.do(ctx, http.MethodGet, "/shipments/stats/", nil, &st)
	return st, err
}

// Analytics returns the dashboard aggregates for the last days days.
func (c *HTTPClient) Analytics(ctx context.Context, days int) (models.AnalyticsData, error) {
	var a models.AnalyticsData
	if days <= 0 {
		return a, fmt.Errorf("days must be positive, got %d", days)
	}
	err := c.do(ctx, http.MethodGet, "/shipments/analytics/?days="+strconv.Itoa(days), nil, &a)
	return a, err
}

func (c *HTTPClient) ListInvoices(ctx context.Context, q models.InvoiceQuery) (models.Page[models.InvoiceListItem], error) {
	params := url.Values{}
	setParam(params, "search", q.Search)
	setParam(params, "payment_status", string(q.PaymentStatus))
	setParam(params, "ordering", q.Ordering)
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	var page models.Page[models.InvoiceListItem]
	err := c.do(ctx, http.MethodGet, withQuery("/invoices/", params), nil, &page)
	return page, err
}

func (c *HTTPClient) GetInvoice(ctx context.Context, id int64) (models.Invoice, error) {
	var inv models.Invoice
	if err := validID(id); err != nil {
		return inv, err
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/invoices/%d/", id), nil, &inv)
	return inv, err
}

func (c *HTTPClient) CreateInvoice(ctx context.Context, data models.InvoiceCreateData) (models.Invoice, error) {
	var inv models.Invoice
	err := c.do(ctx, http.MethodPost, "/invoices/", data, &inv)
	return inv, err
}

type paymentStatusPatch struct {
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

func (c *HTTPClient) UpdateInvoicePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus) (models.Invoice, error) {
	var inv models.Invoice
	if err := validID(id); err != nil {
		return inv, err
	}
	if !status.Valid() {
		return inv, fmt.Errorf("unknown payment status %q", status)
	}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/invoices/%d/", id), paymentStatusPatch{PaymentStatus: status}, &inv)
	return inv, err
}

// Track looks up a parcel by its public tracking code. No session is needed.
func (c *HTTPClient) Track(ctx context.Context, code string) (models.TrackingResult, error) {
	var tr models.TrackingResult
	if code == "" {
		return tr, fmt.Errorf("tracking code is required")
	}
	err := c.do(ctx, http.MethodGet, "/track/"+url.PathEscape(code)+"/", nil, &tr)
	return tr, err
}

// SendParcel submits a customer shipment; the result carries the new
// tracking code.
func (c *HTTPClient) SendParcel(ctx context.Context, data models.ShipmentCreateData) (models.Shipment, error) {
	var s models.Shipment
	err := c.do(ctx, http.MethodPost, "/send/", data, &s)
	return s, err
}

func (c *HTTPClient) MyShipments(ctx context.Context) (models.Page[models.ShipmentListItem], error) {
	var page models.Page[models.ShipmentListItem]
	err := c.do(ctx, http.MethodGet, "/my-shipments/", nil, &page)
	return page, err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	req, err := rest.NewJSONRequest(ctx, method, rest.JoinURL(c.baseURL, path), body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return mapError(err)
	}
	return rest.Decode(resp, out)
}

// mapError keeps session and context failures as they are and reports
// everything else from the transport as ErrUnavailable.
func mapError(err error) error {
	switch {
	case errors.Is(err, session.ErrRefreshFailed):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

func validID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

func setParam(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
