package payment

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/novapay-relay/internal/lib/signer"
	"github.com/magabrotheeeer/novapay-relay/internal/metrics"
	"github.com/magabrotheeeer/novapay-relay/internal/models"
	"github.com/magabrotheeeer/novapay-relay/internal/novapay"
)

type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) CreateCheckoutSession(ctx context.Context, env signer.Envelope) (*novapay.Response, error) {
	args := m.Called(ctx, env)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*novapay.Response), args.Error(1)
}

type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) Sign(payload any) (signer.Envelope, error) {
	args := m.Called(payload)
	return args.Get(0).(signer.Envelope), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var testMerchant = Merchant{
	ID:          "merchant-1",
	CallbackURL: "https://noir.com.ua/api/novapay/webhook",
	SuccessURL:  "https://noir.com.ua/payment-success",
	FailURL:     "https://noir.com.ua/payment-fail",
}

var testRequest = models.PaymentRequest{
	OrderID:     "order-42",
	Amount:      250,
	Description: "Парфум",
	Phone:       "380501112233",
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "without plus", phone: "380501112233", want: "+380501112233"},
		{name: "with plus", phone: "+380501112233", want: "+380501112233"},
		{name: "empty", phone: "", want: "+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.phone))
		})
	}
}

func TestService_BuildPayload(t *testing.T) {
	s := NewService(newNoopLogger(), testMerchant, nil, nil, nil)

	body, err := signer.Marshal(s.buildPayload(testRequest))
	require.NoError(t, err)

	assert.Equal(t,
		`{"merchant_id":"merchant-1","order_id":"order-42","amount":{"value":250,"currency":"UAH"},`+
			`"client_phone":"+380501112233","description":"Парфум",`+
			`"callback_url":"https://noir.com.ua/api/novapay/webhook",`+
			`"success_url":"https://noir.com.ua/payment-success",`+
			`"fail_url":"https://noir.com.ua/payment-fail"}`,
		string(body))
}

func TestService_CreatePayment_Outcomes(t *testing.T) {
	env := signer.Envelope{Body: []byte(`{"order_id":"order-42"}`), Signature: "c2ln"}

	tests := []struct {
		name       string
		resp       *novapay.Response
		want       models.PaymentResult
		wantResult string
	}{
		{
			name: "success",
			resp: &novapay.Response{StatusCode: http.StatusOK, Body: []byte(`{"checkout_url":"https://x","session_id":"abc"}`)},
			want: models.PaymentResult{
				Success:    true,
				PaymentURL: "https://x",
				SessionID:  "abc",
				Raw:        json.RawMessage(`{"checkout_url":"https://x","session_id":"abc"}`),
			},
			wantResult: metrics.ResultSuccess,
		},
		{
			name: "created counts as ok",
			resp: &novapay.Response{StatusCode: http.StatusCreated, Body: []byte(`{"checkout_url":"https://y"}`)},
			want: models.PaymentResult{
				Success:    true,
				PaymentURL: "https://y",
				Raw:        json.RawMessage(`{"checkout_url":"https://y"}`),
			},
			wantResult: metrics.ResultSuccess,
		},
		{
			name: "upstream json error",
			resp: &novapay.Response{StatusCode: http.StatusBadRequest, Body: []byte(`{"type":"validation","message":"bad sign"}`)},
			want: models.PaymentResult{
				Error:   true,
				Details: json.RawMessage(`{"type":"validation","message":"bad sign"}`),
			},
			wantResult: metrics.ResultUpstreamError,
		},
		{
			name: "non json text",
			resp: &novapay.Response{StatusCode: http.StatusBadGateway, Body: []byte("<html>502</html>")},
			want: models.PaymentResult{
				Error:   true,
				Message: InvalidResponseMessage,
				Raw:     "<html>502</html>",
			},
			wantResult: metrics.ResultInvalidResponse,
		},
		{
			name: "empty body",
			resp: &novapay.Response{StatusCode: http.StatusOK},
			want: models.PaymentResult{
				Error:   true,
				Message: InvalidResponseMessage,
				Raw:     "",
			},
			wantResult: metrics.ResultInvalidResponse,
		},
		{
			name: "ok but not an object",
			resp: &novapay.Response{StatusCode: http.StatusOK, Body: []byte(`null`)},
			want: models.PaymentResult{
				Error:   true,
				Details: json.RawMessage(`null`),
			},
			wantResult: metrics.ResultUpstreamError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			sig := new(MockSigner)
			client := new(MockProviderClient)
			sig.On("Sign", mock.AnythingOfType("novapay.CheckoutSessionRequest")).Return(env, nil).Once()
			client.On("CreateCheckoutSession", mock.Anything, env).Return(tt.resp, nil).Once()

			s := NewService(newNoopLogger(), testMerchant, sig, client, m)
			got, err := s.CreatePayment(context.Background(), testRequest)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentRequestsTotal.WithLabelValues(tt.wantResult)))

			sig.AssertExpectations(t)
			client.AssertExpectations(t)
		})
	}
}

func TestService_CreatePayment_SignError(t *testing.T) {
	sig := new(MockSigner)
	client := new(MockProviderClient)
	sig.On("Sign", mock.Anything).Return(signer.Envelope{}, errors.New("bad key")).Once()

	s := NewService(newNoopLogger(), testMerchant, sig, client, nil)
	_, err := s.CreatePayment(context.Background(), testRequest)

	assert.ErrorContains(t, err, "bad key")
	client.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestService_CreatePayment_TransportError(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	sig := new(MockSigner)
	client := new(MockProviderClient)
	sig.On("Sign", mock.Anything).Return(signer.Envelope{Body: []byte(`{}`)}, nil).Once()
	client.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	s := NewService(newNoopLogger(), testMerchant, sig, client, m)
	_, err := s.CreatePayment(context.Background(), testRequest)

	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentRequestsTotal.WithLabelValues(metrics.ResultInternalError)))
}

// Проверяет всю цепочку: подписанные байты уходят в NovaPay без изменений.
func TestService_CreatePayment_SignedBodyTransmittedAsIs(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var gotBody []byte
	var gotSign string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSign = r.Header.Get(novapay.SignHeader)
		_, _ = w.Write([]byte(`{"checkout_url":"https://checkout.novapay.ua/s/1","session_id":"s-1"}`))
	}))
	defer srv.Close()

	s := NewService(newNoopLogger(), testMerchant, signer.New(key), novapay.NewClient(srv.URL, 0), nil)
	got, err := s.CreatePayment(context.Background(), testRequest)
	require.NoError(t, err)

	expected, err := signer.Marshal(s.buildPayload(testRequest))
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(gotBody))
	assert.NoError(t, signer.Verify(&key.PublicKey, gotBody, gotSign))

	assert.True(t, got.Success)
	assert.Equal(t, "https://checkout.novapay.ua/s/1", got.PaymentURL)
	assert.Equal(t, "s-1", got.SessionID)
}
