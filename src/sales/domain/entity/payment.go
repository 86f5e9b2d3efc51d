package entity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Métodos de pago soportados. Un método desconocido se acepta por política
// explícita de fallback (ver gateway).
const (
	MethodCash         = "efectivo"
	MethodCreditCard   = "tarjeta_credito"
	MethodDebitCard    = "tarjeta_debito"
	MethodBankTransfer = "transferencia"
	MethodMercadoPago  = "mercado_pago"
)

// PaymentData datos de pago que llegan en la solicitud de venta.
// Transitorio: el PAN y el código de seguridad nunca se persisten.
type PaymentData struct {
	Method            string `json:"metodo_pago"`
	CardNumber        string `json:"numero_tarjeta,omitempty"`
	CardHolder        string `json:"nombre_titular,omitempty"`
	SecurityCode      string `json:"codigo_seguridad,omitempty"`
	ExternalPaymentID string `json:"payment_id,omitempty"` // pago pre-autorizado (Mercado Pago)
}

// IsCardMethod reporta si el método requiere datos de tarjeta
func (d *PaymentData) IsCardMethod() bool {
	method := strings.ToLower(d.Method)
	return strings.Contains(method, "tarjeta") ||
		strings.Contains(method, "credito") ||
		strings.Contains(method, "debito")
}

// Payment representa un pago capturado, 1:1 con su factura.
// De la tarjeta solo se guarda una representación enmascarada (****1234).
type Payment struct {
	ID         uuid.UUID       `json:"id_pago"`
	InvoiceID  uuid.UUID       `json:"id_factura"`
	Method     string          `json:"metodo_pago"`
	Amount     decimal.Decimal `json:"monto"`
	CardHolder string          `json:"nombre_titular,omitempty"`
	MaskedCard string          `json:"numero_tarjeta,omitempty"`
}

// NewPayment crea el registro de pago para una factura
func NewPayment(invoiceID uuid.UUID, method string, amount decimal.Decimal) (*Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if method == "" {
		return nil, ErrPaymentMethodRequired
	}

	return &Payment{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Method:    method,
		Amount:    amount,
	}, nil
}

// AttachCardData guarda titular y últimos 4 dígitos de la tarjeta
func (p *Payment) AttachCardData(holder, cardNumber string) {
	p.CardHolder = holder
	p.MaskedCard = MaskCardNumber(cardNumber)
}

// MaskCardNumber enmascara un número de tarjeta dejando los últimos 4 dígitos
func MaskCardNumber(cardNumber string) string {
	digits := strings.ReplaceAll(cardNumber, " ", "")
	if len(digits) < 4 {
		return ""
	}
	return "****" + digits[len(digits)-4:]
}
