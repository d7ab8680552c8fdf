package config

import (
	"os"
	"strconv"
)

// Config configuración del servidor leída de variables de entorno
type Config struct {
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// URLs de los colaboradores externos
	GenerationURL string
	ScoreURL      string
	ExportURL     string
	NotesURL      string

	// Tiempo de espera (segundos) para las peticiones salientes
	RequestTimeoutSec int

	// Secreto HS256 del servicio de identidad externo
	JWTSecret string
}

// FromEnv construye la configuración con valores por defecto de desarrollo
func FromEnv() Config {
	return Config{
		HTTPAddr:          envOr("HTTP_ADDR", ":8080"),
		RedisAddr:         envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     envOr("REDIS_PASSWORD", ""),
		RedisDB:           envInt("REDIS_DB", 0),
		GenerationURL:     envOr("GENERATION_URL", "http://localhost:5000"),
		ScoreURL:          envOr("SCORE_URL", "http://localhost:5000"),
		ExportURL:         envOr("EXPORT_URL", "http://localhost:5000"),
		NotesURL:          envOr("NOTES_URL", "http://localhost:5000"),
		RequestTimeoutSec: envInt("REQUEST_TIMEOUT_SEC", 30),
		JWTSecret:         envOr("JWT_SECRET", "dev-secret"),
	}
}

func envOr(key, def string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return def
}

func envInt(key string, def int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}
