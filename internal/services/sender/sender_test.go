package sender

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/smtp"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
	written bytes.Buffer
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type nopWriteCloser struct {
	buf *bytes.Buffer
}

func (w nopWriteCloser) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w nopWriteCloser) Close() error                { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func marshalJob(t *testing.T, job models.EmailJob) []byte {
	t.Helper()
	body, err := json.Marshal(job)
	require.NoError(t, err)
	return body
}

func TestProcessEmailJob_WelcomeCredentials(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	var sent bytes.Buffer

	transport.On("GetSMTPUser").Return("noreply@brainbooster.app")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@brainbooster.app").Return(nil).Once()
	client.On("Rcpt", "new@example.com").Return(nil).Once()
	client.On("Data").Return(nopWriteCloser{buf: &sent}, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := New(discardLogger(), transport)
	err := svc.ProcessEmailJob(marshalJob(t, models.EmailJob{
		Kind:      models.EmailWelcomeCredentials,
		Email:     "new@example.com",
		FirstName: "Alice",
		Tier:      models.TierPremium,
		Password:  "tmpPassw0rd1",
	}))

	require.NoError(t, err)
	assert.Contains(t, sent.String(), "Subject: Welcome to BrainBooster")
	assert.Contains(t, sent.String(), "Hi Alice!")
	assert.Contains(t, sent.String(), "tmpPassw0rd1")
	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestProcessEmailJob_PaymentFailed(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	var sent bytes.Buffer

	transport.On("GetSMTPUser").Return("noreply@brainbooster.app")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", mock.Anything).Return(nil).Once()
	client.On("Rcpt", "user@example.com").Return(nil).Once()
	client.On("Data").Return(nopWriteCloser{buf: &sent}, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := New(discardLogger(), transport)
	err := svc.ProcessEmailJob(marshalJob(t, models.EmailJob{
		Kind:  models.EmailPaymentFailed,
		Email: "user@example.com",
	}))

	require.NoError(t, err)
	assert.Contains(t, sent.String(), "Subject: Payment failed")
	assert.Contains(t, sent.String(), "Hi there!")
}

func TestProcessEmailJob_MalformedBody(t *testing.T) {
	transport := new(MockTransport)

	svc := New(discardLogger(), transport)
	err := svc.ProcessEmailJob([]byte("{not json"))

	require.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestProcessEmailJob_UnknownKind(t *testing.T) {
	transport := new(MockTransport)

	svc := New(discardLogger(), transport)
	err := svc.ProcessEmailJob(marshalJob(t, models.EmailJob{
		Kind:  "session_reminder",
		Email: "user@example.com",
	}))

	require.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestProcessEmailJob_ConnectFailure(t *testing.T) {
	transport := new(MockTransport)

	transport.On("GetSMTPUser").Return("noreply@brainbooster.app")
	transport.On("Connect").Return(nil, errors.New("connection refused")).Once()

	svc := New(discardLogger(), transport)
	err := svc.ProcessEmailJob(marshalJob(t, models.EmailJob{
		Kind:  models.EmailCancelled,
		Email: "user@example.com",
	}))

	require.Error(t, err)
}
