package database

import (
	"database/sql"
	"fmt"
	"log"
)

// RunMigrations crea el esquema requerido por el backend de ventas.
// FKs: facturas→usuarios, detalles_factura→(facturas,productos),
// pagos→facturas (1:1), devoluciones→facturas.
// La restricción UNIQUE sobre devoluciones(id_factura) cierra la carrera de
// doble devolución concurrente a nivel de base de datos.
func RunMigrations(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id_usuario INTEGER PRIMARY KEY,
			nombre VARCHAR(255) NOT NULL,
			email VARCHAR(255),
			rol VARCHAR(100)
		)`,
		`CREATE TABLE IF NOT EXISTS productos (
			id_producto INTEGER PRIMARY KEY,
			descripcion VARCHAR(1024) NOT NULL,
			categoria VARCHAR(100) NOT NULL,
			precio_unitario NUMERIC(10,2),
			cantidad_disponible INTEGER NOT NULL DEFAULT 0,
			CONSTRAINT chk_cantidad_no_negativa CHECK (cantidad_disponible >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS facturas (
			id_factura UUID PRIMARY KEY,
			id_usuario INTEGER NOT NULL REFERENCES usuarios(id_usuario),
			fecha TIMESTAMPTZ NOT NULL,
			subtotal NUMERIC(12,2) NOT NULL,
			iva NUMERIC(12,2) NOT NULL,
			total NUMERIC(12,2) NOT NULL,
			id_pago UUID,
			payment_id VARCHAR(255),
			devuelta BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS detalles_factura (
			id_detalle UUID PRIMARY KEY,
			id_factura UUID NOT NULL REFERENCES facturas(id_factura) ON DELETE CASCADE,
			id_producto INTEGER NOT NULL REFERENCES productos(id_producto),
			descripcion VARCHAR(1024) NOT NULL,
			cantidad INTEGER NOT NULL,
			precio_unitario NUMERIC(10,2) NOT NULL,
			subtotal NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pagos (
			id_pago UUID PRIMARY KEY,
			id_factura UUID NOT NULL UNIQUE REFERENCES facturas(id_factura),
			metodo_pago VARCHAR(100) NOT NULL,
			monto NUMERIC(12,2) NOT NULL,
			nombre_titular VARCHAR(255),
			numero_tarjeta VARCHAR(20)
		)`,
		`CREATE TABLE IF NOT EXISTS devoluciones (
			id_devolucion UUID PRIMARY KEY,
			id_factura UUID NOT NULL UNIQUE REFERENCES facturas(id_factura),
			payment_id VARCHAR(255),
			refund_id VARCHAR(255),
			monto_devuelto NUMERIC(12,2) NOT NULL,
			motivo VARCHAR(1024),
			estado VARCHAR(50) NOT NULL,
			fecha_devolucion TIMESTAMPTZ NOT NULL,
			usuario_devolucion VARCHAR(255)
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error running migration: %w", err)
		}
	}

	log.Println("✅ Migraciones ejecutadas correctamente")
	return nil
}
