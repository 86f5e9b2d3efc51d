package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ventas/src/shared/domain/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(server *httptest.Server) *MercadoPagoClient {
	return &MercadoPagoClient{
		httpClient:  &http.Client{Timeout: 2 * time.Second},
		baseURL:     server.URL,
		accessToken: "APP_USR-test-token",
	}
}

func TestRefundSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments/84930211456/refunds", r.URL.Path)
		assert.Equal(t, "Bearer APP_USR-test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 998877, "status": "approved"}`))
	}))
	defer server.Close()

	result, err := testClient(server).Refund(context.Background(), "84930211456")
	require.NoError(t, err)
	assert.Equal(t, "998877", result.RefundID)
	assert.Equal(t, "approved", result.Status)
}

func TestRefundNon2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "payment not found"}`))
	}))
	defer server.Close()

	_, err := testClient(server).Refund(context.Background(), "000")

	var extErr *apperror.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "MercadoPago", extErr.Service)
	assert.Contains(t, extErr.Message, "status 400")
}

func TestRefundMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := testClient(server).Refund(context.Background(), "84930211456")

	var extErr *apperror.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
}

func TestRefundUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	_, err := testClient(server).Refund(context.Background(), "84930211456")

	var extErr *apperror.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
}
