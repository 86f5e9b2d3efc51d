package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores Prometheus del servicio de ventas, expuestos en /metrics
var (
	// VentasProcesadas cuenta ventas procesadas por resultado (success/error)
	VentasProcesadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ventas_procesadas_total",
		Help: "Total de ventas procesadas por resultado",
	}, []string{"resultado"})

	// DevolucionesProcesadas cuenta devoluciones procesadas por resultado
	DevolucionesProcesadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devoluciones_procesadas_total",
		Help: "Total de devoluciones procesadas por resultado",
	}, []string{"resultado"})

	// PagosRechazados cuenta capturas de pago rechazadas por método
	PagosRechazados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagos_rechazados_total",
		Help: "Total de capturas de pago rechazadas por método",
	}, []string{"metodo"})
)
