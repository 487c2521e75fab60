package services

import (
	"context"
	"errors"

	"github.com/parceltrack/console/internal/client/client"
	"github.com/parceltrack/console/internal/client/models"
	"github.com/parceltrack/console/internal/session"
)

// fakeSessions implements Sessions for unit tests.
type fakeSessions struct {
	valid bool

	loginErr    error
	registerErr error
	logoutErr   error
	user        models.User

	loginCalls  int
	logoutCalls int
	lastEmail   string
}

func (f *fakeSessions) Login(_ context.Context, identifier, _ string) (session.Pair, error) {
	f.loginCalls++
	f.lastEmail = identifier
	if f.loginErr != nil {
		return session.Pair{}, f.loginErr
	}
	f.valid = true
	return session.Pair{Access: "A", Refresh: "R"}, nil
}

func (f *fakeSessions) Register(_ context.Context, data models.RegisterData) (models.User, error) {
	if f.registerErr != nil {
		return models.User{}, f.registerErr
	}
	f.valid = true
	return models.User{ID: 1, Email: data.Email}, nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.logoutCalls++
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.valid = false
	return nil
}

func (f *fakeSessions) IsSessionValid(context.Context) bool { return f.valid }

// fakeClient implements client.Client; only the methods a test sets are
// usable.
type fakeClient struct {
	client.Client

	meCalls int
	me      models.User
	meErr   error

	invoice    models.Invoice
	invoiceErr error
}

func (f *fakeClient) Me(context.Context) (models.User, error) {
	f.meCalls++
	return f.me, f.meErr
}

func (f *fakeClient) GetInvoice(_ context.Context, id int64) (models.Invoice, error) {
	if f.invoiceErr != nil {
		return models.Invoice{}, f.invoiceErr
	}
	if id != f.invoice.ID {
		return models.Invoice{}, errors.New("unexpected id")
	}
	return f.invoice, nil
}

type memSink struct {
	docs map[string][]byte
	err  error
}

func (s *memSink) Put(_ context.Context, name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.docs == nil {
		s.docs = map[string][]byte{}
	}
	s.docs[name] = data
	return "mem://" + name, nil
}
