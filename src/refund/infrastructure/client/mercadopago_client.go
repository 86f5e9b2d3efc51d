package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"ventas/src/refund/domain/port"
	"ventas/src/shared/domain/apperror"
)

// mercadoPagoRefundResponse representa la respuesta de MercadoPago a un reembolso
type mercadoPagoRefundResponse struct {
	ID     json.Number `json:"id"`
	Status string      `json:"status"`
}

// MercadoPagoClient cliente HTTP para reembolsos contra la API de MercadoPago
type MercadoPagoClient struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewMercadoPagoClient crea una nueva instancia del cliente
func NewMercadoPagoClient() *MercadoPagoClient {
	baseURL := os.Getenv("MERCADOPAGO_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com" // Default API pública
	}

	return &MercadoPagoClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     baseURL,
		accessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
	}
}

// Refund solicita el reembolso total de un pago vía POST /v1/payments/{id}/refunds
func (c *MercadoPagoClient) Refund(ctx context.Context, paymentRef string) (*port.ExternalRefundResult, error) {
	url := fmt.Sprintf("%s/v1/payments/%s/refunds", c.baseURL, paymentRef)

	// Body vacío = reembolso total
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer([]byte("{}")))
	if err != nil {
		return nil, apperror.NewExternalService("MercadoPago", "error creating request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewExternalService("MercadoPago", "error calling refunds API", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewExternalService("MercadoPago", "error reading response", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apperror.NewExternalService("MercadoPago",
			fmt.Sprintf("refunds API returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var refundResp mercadoPagoRefundResponse
	if err := json.Unmarshal(body, &refundResp); err != nil {
		return nil, apperror.NewExternalService("MercadoPago", "error unmarshalling response", err)
	}

	return &port.ExternalRefundResult{
		RefundID: refundResp.ID.String(),
		Status:   refundResp.Status,
	}, nil
}
