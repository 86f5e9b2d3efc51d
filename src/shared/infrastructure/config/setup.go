package config

import (
	"os"

	"ventas/src/shared/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// GzipSharedConfig contiene la configuración para el módulo compartido de compresión
type GzipSharedConfig struct {
	EnableGzip          bool
	AlwaysTryDecompress bool
	GzipExcludedPaths   []string
}

// DefaultSharedConfig devuelve una configuración por defecto
func DefaultSharedConfig() GzipSharedConfig {
	return GzipSharedConfig{
		EnableGzip:          true,
		AlwaysTryDecompress: true,
		GzipExcludedPaths:   []string{"/health", "/metrics"},
	}
}

// SetupSharedMiddleware configura los middlewares compartidos
func SetupSharedMiddleware(router *gin.Engine, config GzipSharedConfig) {
	// Intentar descomprimir todas las solicitudes entrantes si está habilitado
	if config.AlwaysTryDecompress {
		router.Use(middleware.GzipReader())
	}

	// Compresión gzip de respuestas
	if config.EnableGzip {
		router.Use(middleware.GzipMiddleware(middleware.GzipOptions{
			ExcludedPaths: config.GzipExcludedPaths,
		}))
	}
}

// GetEnv obtiene una variable de entorno o devuelve un valor por defecto
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
