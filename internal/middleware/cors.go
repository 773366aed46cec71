package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	log.Debug().Strs("origins", allowedOrigins).Msg("cors configured")

	// empty means allow everything (local development)
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
