package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados posibles de una devolución
const (
	StatusApproved = "APROBADA"
	StatusPending  = "PENDIENTE"
	StatusRejected = "RECHAZADA"
)

// Prefijo de pagos de prueba que nunca se reembolsan externamente
const testPaymentPrefix = "TEST_"

// Refund representa una devolución completa de una factura
type Refund struct {
	ID         uuid.UUID       `json:"id_devolucion"`
	InvoiceID  uuid.UUID       `json:"id_factura"`
	PaymentRef string          `json:"referencia_pago,omitempty"`
	RefundRef  string          `json:"referencia_reembolso,omitempty"`
	Amount     decimal.Decimal `json:"monto"`
	Reason     string          `json:"motivo"`
	Status     string          `json:"estado"`
	Date       time.Time       `json:"fecha"`
	Operator   string          `json:"operador,omitempty"`
}

// NewRefund crea una devolución aprobada para una factura
func NewRefund(invoiceID uuid.UUID, paymentRef string, amount decimal.Decimal, reason, operator string) (*Refund, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidRefundAmount
	}

	return &Refund{
		ID:         uuid.New(),
		InvoiceID:  invoiceID,
		PaymentRef: paymentRef,
		Amount:     amount,
		Reason:     reason,
		Status:     StatusApproved,
		Date:       time.Now(),
		Operator:   operator,
	}, nil
}

// AttachExternalRef registra el ID de reembolso devuelto por la pasarela
func (r *Refund) AttachExternalRef(refundRef string) {
	r.RefundRef = refundRef
}

// RequiresExternalRefund indica si la referencia de pago corresponde a un
// pago real en la pasarela. Referencias vacías o de prueba se devuelven
// solo localmente.
func RequiresExternalRefund(paymentRef string) bool {
	if paymentRef == "" {
		return false
	}
	if strings.HasPrefix(strings.ToUpper(paymentRef), testPaymentPrefix) {
		return false
	}
	return true
}

// IsValidPaymentRef verifica que una referencia real sea un ID numérico
// de la pasarela. Solo aplica a referencias que requieren reembolso externo.
func IsValidPaymentRef(paymentRef string) bool {
	_, err := strconv.ParseInt(paymentRef, 10, 64)
	return err == nil
}
