package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Taxonomía de errores de negocio del sistema de ventas.
// Los errores de negocio viajan tipados hasta el controlador, que los traduce
// a códigos HTTP 4xx con su mensaje específico. Los errores técnicos se
// envuelven en TechnicalError y se exponen de forma genérica (500).

// NotFoundError indica que una entidad no existe (usuario, producto, factura)
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado con ID: %v", e.Resource, e.ID)
}

// NewNotFound crea un NotFoundError para un recurso e ID dados
func NewNotFound(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indica entrada malformada (datos de pago incompletos,
// referencia externa inválida, etc.)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation crea un ValidationError con formato
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError indica stock insuficiente para un producto.
// Transporta producto, disponible y solicitado para el mensaje al cliente.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para '%s'. Disponible: %d, Solicitado: %d",
		e.Product, e.Available, e.Requested)
}

// InvalidStateError indica una transición de estado inválida
// (ej: factura ya devuelta, producto sin precio configurado)
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// NewInvalidState crea un InvalidStateError con formato
func NewInvalidState(format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

// PaymentError indica que la captura del pago fue rechazada
type PaymentError struct {
	Method  string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("Error al procesar el pago con %s: %s", e.Method, e.Message)
}

// ExternalServiceError indica una falla en un servicio externo
// (ej: API de reembolsos de Mercado Pago)
type ExternalServiceError struct {
	Service string
	Message string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("Error en servicio externo %s: %s", e.Service, e.Message)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// NewExternalService crea un ExternalServiceError para un servicio dado
func NewExternalService(service, message string, err error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Message: message, Err: err}
}

// TechnicalError envuelve errores inesperados (DB, red) antes de propagarlos.
// El mensaje interno se loguea completo; hacia el cliente solo viaja un
// mensaje genérico para no filtrar detalles internos.
type TechnicalError struct {
	Err error
}

func (e *TechnicalError) Error() string {
	return fmt.Sprintf("error técnico en el procesamiento: %v", e.Err)
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

// WrapTechnical envuelve un error como técnico, respetando errores de negocio
// ya tipados (se re-lanzan intactos, ver IsBusiness)
func WrapTechnical(err error) error {
	if err == nil {
		return nil
	}
	if IsBusiness(err) {
		return err
	}
	var tech *TechnicalError
	if errors.As(err, &tech) {
		return err
	}
	return &TechnicalError{Err: err}
}

// IsBusiness reporta si el error es de negocio (recuperable en el API boundary)
func IsBusiness(err error) bool {
	var nf *NotFoundError
	var val *ValidationError
	var stock *InsufficientStockError
	var state *InvalidStateError
	var pay *PaymentError
	var ext *ExternalServiceError
	return errors.As(err, &nf) ||
		errors.As(err, &val) ||
		errors.As(err, &stock) ||
		errors.As(err, &state) ||
		errors.As(err, &pay) ||
		errors.As(err, &ext)
}

// HTTPStatus traduce un error de la taxonomía a un código HTTP
func HTTPStatus(err error) int {
	var nf *NotFoundError
	var val *ValidationError
	var stock *InsufficientStockError
	var state *InvalidStateError
	var pay *PaymentError
	var ext *ExternalServiceError

	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &val):
		return http.StatusBadRequest
	case errors.As(err, &stock):
		return http.StatusConflict
	case errors.As(err, &state):
		return http.StatusConflict
	case errors.As(err, &pay):
		return http.StatusPaymentRequired
	case errors.As(err, &ext):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage devuelve el mensaje a exponer al cliente.
// Errores de negocio exponen su mensaje específico; los técnicos uno genérico.
func ClientMessage(err error) string {
	if IsBusiness(err) {
		return err.Error()
	}
	return "Error interno del servidor"
}
