package middleware

import (
	"compress/gzip"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// GzipOptions opciones para el middleware de compresión
type GzipOptions struct {
	ExcludedPaths []string
}

type gzipWriter struct {
	gin.ResponseWriter
	writer *gzip.Writer
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	return g.writer.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.writer.Write([]byte(s))
}

// GzipReader descomprime bodies entrantes con Content-Encoding: gzip
func GzipReader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Content-Encoding") == "gzip" {
			reader, err := gzip.NewReader(c.Request.Body)
			if err == nil {
				c.Request.Body = io.NopCloser(reader)
			}
		}
		c.Next()
	}
}

// GzipMiddleware comprime respuestas cuando el cliente soporta gzip
func GzipMiddleware(opts GzipOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range opts.ExcludedPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}

		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gz := gzip.NewWriter(c.Writer)
		defer gz.Close()

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		c.Writer = &gzipWriter{ResponseWriter: c.Writer, writer: gz}
		c.Next()
	}
}
