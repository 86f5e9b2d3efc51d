package gateway

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"ventas/src/sales/domain/entity"
	"ventas/src/shared/domain/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GatewayConfig configura el gateway simulado de pagos.
// Las probabilidades de rechazo y el delay de liquidación son configurables;
// Rand es inyectable para obtener resultados deterministas en tests.
type GatewayConfig struct {
	CreditDeclineRate   float64
	DebitDeclineRate    float64
	TransferDeclineRate float64
	SettleDelay         time.Duration
	Rand                func() float64
}

// DefaultGatewayConfig devuelve la configuración por defecto del simulador
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		CreditDeclineRate:   0.05,
		DebitDeclineRate:    0.10,
		TransferDeclineRate: 0.02,
		SettleDelay:         100 * time.Millisecond,
		Rand:                rand.Float64,
	}
}

// SimulatedPaymentGateway simula la autorización de pagos por método.
// Producción reemplazaría este adaptador por la integración real con el
// procesador de tarjetas.
type SimulatedPaymentGateway struct {
	config GatewayConfig
}

// NewSimulatedPaymentGateway crea el gateway con la configuración dada
func NewSimulatedPaymentGateway(config GatewayConfig) *SimulatedPaymentGateway {
	if config.Rand == nil {
		config.Rand = rand.Float64
	}
	return &SimulatedPaymentGateway{config: config}
}

// Capture valida los datos de pago y captura el monto contra el método.
// Retorna el Pago construido (sin persistir) o PaymentError si fue rechazado.
func (g *SimulatedPaymentGateway) Capture(
	ctx context.Context,
	data *entity.PaymentData,
	amount decimal.Decimal,
	invoiceID uuid.UUID,
) (*entity.Payment, error) {
	if err := g.validate(data, amount); err != nil {
		return nil, err
	}

	log.Printf("💳 Procesando pago: %s por $%s", data.Method, amount)

	approved, declineReason := g.authorize(ctx, data, amount)
	if !approved {
		return nil, &apperror.PaymentError{Method: data.Method, Message: declineReason}
	}

	payment, err := entity.NewPayment(invoiceID, data.Method, amount)
	if err != nil {
		return nil, apperror.NewValidation("%v", err)
	}

	if data.IsCardMethod() {
		payment.AttachCardData(data.CardHolder, data.CardNumber)
	}

	return payment, nil
}

// validate aplica las validaciones previas a la captura
func (g *SimulatedPaymentGateway) validate(data *entity.PaymentData, amount decimal.Decimal) error {
	if data == nil || strings.TrimSpace(data.Method) == "" {
		return apperror.NewValidation("El método de pago es obligatorio")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperror.NewValidation("El monto debe ser mayor a 0")
	}

	method := strings.ToLower(data.Method)

	// Mercado Pago no requiere validación de tarjeta: ya fue procesado afuera
	if method == entity.MethodMercadoPago {
		return nil
	}

	if data.IsCardMethod() {
		return g.validateCardData(data)
	}

	return nil
}

func (g *SimulatedPaymentGateway) validateCardData(data *entity.PaymentData) error {
	cardNumber := strings.ReplaceAll(data.CardNumber, " ", "")
	if len(cardNumber) < 13 {
		return apperror.NewValidation("Número de tarjeta inválido")
	}
	if strings.TrimSpace(data.CardHolder) == "" {
		return apperror.NewValidation("El nombre del titular es obligatorio")
	}
	if len(data.SecurityCode) < 3 {
		return apperror.NewValidation("Código de seguridad inválido")
	}
	return nil
}

// authorize simula la autorización según el método
func (g *SimulatedPaymentGateway) authorize(ctx context.Context, data *entity.PaymentData, amount decimal.Decimal) (bool, string) {
	switch strings.ToLower(data.Method) {
	case entity.MethodCash:
		// Siempre exitoso para efectivo
		log.Printf("💵 Pago en efectivo procesado exitosamente")
		return true, ""

	case entity.MethodCreditCard:
		g.settle(ctx)
		if g.config.Rand() < g.config.CreditDeclineRate {
			log.Printf("❌ Pago con tarjeta de crédito rechazado")
			return false, "pago con tarjeta de crédito rechazado por el banco"
		}
		log.Printf("✅ Pago con tarjeta de crédito aprobado (titular: %s, %s)",
			data.CardHolder, entity.MaskCardNumber(data.CardNumber))
		return true, ""

	case entity.MethodDebitCard:
		g.settle(ctx)
		if g.config.Rand() < g.config.DebitDeclineRate {
			log.Printf("❌ Pago con tarjeta de débito rechazado (fondos insuficientes)")
			return false, "pago con tarjeta de débito rechazado (fondos insuficientes)"
		}
		log.Printf("✅ Pago con tarjeta de débito aprobado")
		return true, ""

	case entity.MethodBankTransfer:
		g.settle(ctx)
		if g.config.Rand() < g.config.TransferDeclineRate {
			log.Printf("❌ Error en transferencia bancaria")
			return false, "error en transferencia bancaria"
		}
		log.Printf("🏦 Transferencia bancaria procesada exitosamente")
		return true, ""

	case entity.MethodMercadoPago:
		// El pago ya fue aprobado por Mercado Pago, solo se registra
		log.Printf("🔵 Pago con Mercado Pago confirmado (ref: %s)", data.ExternalPaymentID)
		return true, ""

	default:
		// Política explícita de fallback: métodos desconocidos se aceptan
		log.Printf("⚠️ Método de pago no reconocido (%s), procesando como genérico", data.Method)
		return true, ""
	}
}

// settle simula el tiempo de liquidación, respetando cancelación del contexto
func (g *SimulatedPaymentGateway) settle(ctx context.Context) {
	if g.config.SettleDelay <= 0 {
		return
	}
	select {
	case <-time.After(g.config.SettleDelay):
	case <-ctx.Done():
	}
}
