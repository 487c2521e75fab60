package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/parceltrack/console/internal/client/client"
	"github.com/parceltrack/console/internal/client/models"
	"github.com/parceltrack/console/internal/common"
	"github.com/parceltrack/console/internal/logging"
	"github.com/parceltrack/console/internal/session"
	"github.com/prometheus/client_golang/prometheus"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

// stubPasswords makes getPassword return pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(_ io.Writer) ([]byte, error) {
		if i >= len(pws) {
			return nil, io.EOF
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}

type fakeAuth struct {
	app   *App
	valid bool
	user  *models.User

	loginEmail    string
	loginPassword string
	loginErr      error

	registered  models.RegisterData
	registerErr error

	logoutCalls int
	logoutErr   error

	currentErr error
	guardCalls int
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*models.User, error) {
	f.loginEmail, f.loginPassword = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.valid = true
	return f.user, nil
}

func (f *fakeAuth) Register(_ context.Context, data models.RegisterData) (*models.User, error) {
	f.registered = data
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.valid = true
	return &models.User{ID: 9, Email: data.Email, FirstName: data.FirstName, LastName: data.LastName}, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalls++
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.valid = false
	f.app.Navigate(f.app.flavour.LandingRoute)
	return nil
}

func (f *fakeAuth) CurrentUser(context.Context) (*models.User, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	if !f.valid {
		return nil, nil
	}
	return f.user, nil
}

func (f *fakeAuth) Guard(context.Context) error {
	f.guardCalls++
	if f.valid {
		return nil
	}
	if f.app.CurrentRoute() != f.app.flavour.LoginRoute {
		f.app.Navigate(f.app.flavour.LoginRoute)
	}
	return common.ErrorUnauthorized
}

type fakeInvoices struct {
	rendered  []models.Invoice
	exported  []int64
	location  string
	renderErr error
	exportErr error
}

func (f *fakeInvoices) Render(inv models.Invoice) ([]byte, error) {
	f.rendered = append(f.rendered, inv)
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	return []byte("INVOICE " + inv.InvoiceNumber + "\n"), nil
}

func (f *fakeInvoices) Export(_ context.Context, id int64) (string, error) {
	f.exported = append(f.exported, id)
	return f.location, f.exportErr
}

type fakeSession struct {
	valid  bool
	expiry time.Time
	err    error
}

func (f *fakeSession) IsSessionValid(context.Context) bool { return f.valid }
func (f *fakeSession) SessionExpiry(context.Context) (time.Time, error) {
	return f.expiry, f.err
}

// fakeAPI implements the calls the console makes. Unused methods of the
// embedded interface panic when reached.
type fakeAPI struct {
	client.Client
	err error

	shipmentPage    models.Page[models.ShipmentListItem]
	shipmentQueries []models.ShipmentQuery
	shipment        models.Shipment
	createdShipment []models.ShipmentCreateData
	statusUpdates   []models.StatusUpdateData
	stats           models.ShipmentStats
	analytics       models.AnalyticsData
	analyticsDays   []int

	invoicePage    models.Page[models.InvoiceListItem]
	invoiceQueries []models.InvoiceQuery
	invoice        models.Invoice
	createdInvoice []models.InvoiceCreateData
	payments       []models.PaymentStatus

	tracking   models.TrackingResult
	trackCodes []string
	sent       []models.ShipmentCreateData
	mine       models.Page[models.ShipmentListItem]
}

func (f *fakeAPI) ListShipments(_ context.Context, q models.ShipmentQuery) (models.Page[models.ShipmentListItem], error) {
	f.shipmentQueries = append(f.shipmentQueries, q)
	return f.shipmentPage, f.err
}

func (f *fakeAPI) GetShipment(_ context.Context, id int64) (models.Shipment, error) {
	s := f.shipment
	s.ID = id
	return s, f.err
}

func (f *fakeAPI) CreateShipment(_ context.Context, data models.ShipmentCreateData) (models.Shipment, error) {
	f.createdShipment = append(f.createdShipment, data)
	return models.Shipment{ID: 31, TrackingCode: "PT-NEW001"}, f.err
}

func (f *fakeAPI) AddStatusUpdate(_ context.Context, id int64, data models.StatusUpdateData) (models.Shipment, error) {
	f.statusUpdates = append(f.statusUpdates, data)
	s := f.shipment
	s.ID = id
	s.CurrentStatus = data.Status
	s.StatusDisplay = ""
	return s, f.err
}

func (f *fakeAPI) ShipmentStats(context.Context) (models.ShipmentStats, error) {
	return f.stats, f.err
}

func (f *fakeAPI) Analytics(_ context.Context, days int) (models.AnalyticsData, error) {
	f.analyticsDays = append(f.analyticsDays, days)
	return f.analytics, f.err
}

func (f *fakeAPI) ListInvoices(_ context.Context, q models.InvoiceQuery) (models.Page[models.InvoiceListItem], error) {
	f.invoiceQueries = append(f.invoiceQueries, q)
	return f.invoicePage, f.err
}

func (f *fakeAPI) GetInvoice(_ context.Context, id int64) (models.Invoice, error) {
	inv := f.invoice
	inv.ID = id
	return inv, f.err
}

func (f *fakeAPI) CreateInvoice(_ context.Context, data models.InvoiceCreateData) (models.Invoice, error) {
	f.createdInvoice = append(f.createdInvoice, data)
	return models.Invoice{ID: 12, InvoiceNumber: "INV-2026-0012", TotalAmount: "110.00"}, f.err
}

func (f *fakeAPI) UpdateInvoicePaymentStatus(_ context.Context, id int64, status models.PaymentStatus) (models.Invoice, error) {
	f.payments = append(f.payments, status)
	return models.Invoice{ID: id, InvoiceNumber: "INV-2026-0001", PaymentStatus: status}, f.err
}

func (f *fakeAPI) Track(_ context.Context, code string) (models.TrackingResult, error) {
	f.trackCodes = append(f.trackCodes, code)
	return f.tracking, f.err
}

func (f *fakeAPI) SendParcel(_ context.Context, data models.ShipmentCreateData) (models.Shipment, error) {
	f.sent = append(f.sent, data)
	return models.Shipment{ID: 40, TrackingCode: "PT-SENT01"}, f.err
}

func (f *fakeAPI) MyShipments(context.Context) (models.Page[models.ShipmentListItem], error) {
	return f.mine, f.err
}

type testEnv struct {
	app  *App
	out  *bytes.Buffer
	auth *fakeAuth
	api  *fakeAPI
	inv  *fakeInvoices
	sess *fakeSession
}

// newTestApp builds an App over fakes. lines feed the prompts.
func newTestApp(t *testing.T, fl Flavour, lines ...string) *testEnv {
	t.Helper()
	out := &bytes.Buffer{}
	e := &testEnv{
		out:  out,
		auth: &fakeAuth{user: &models.User{ID: 1, Email: "ops@example.com", FirstName: "Olga", LastName: "Ops"}},
		api:  &fakeAPI{},
		inv:  &fakeInvoices{location: "exports/invoice-INV-1.txt"},
		sess: &fakeSession{},
	}
	e.app = &App{
		flavour:  fl,
		log:      logging.NewDiscard(),
		auth:     e.auth,
		invoices: e.inv,
		api:      e.api,
		session:  e.sess,
		registry: prometheus.NewRegistry(),
		reader:   readerFromLines(lines...),
		out:      out,
		now:      func() time.Time { return testNow },
		router:   session.NewRouter(fl.HomeRoute),
	}
	e.auth.app = e.app
	return e
}

// signIn marks the session valid and the user as hydrated.
func (e *testEnv) signIn() *testEnv {
	e.auth.valid = true
	e.sess.valid = true
	e.app.setUser(e.auth.user)
	return e
}
