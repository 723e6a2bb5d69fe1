// Package api — служебный HTTP-интерфейс бота: healthcheck и статистика.
package api

import (
	"github.com/go-chi/chi/v5"

	"supportbot/internal/db"
)

// Storage — операции хранилища, доступные HTTP-слою.
type Storage interface {
	Ping() error
	CountUsers() (int, error)
	CountBotMessages() (int, error)
	ListUsersWithMessageCounts() ([]db.UserReportRow, error)
}

// ApiDependencies содержит зависимости HTTP-обработчиков.
type ApiDependencies struct {
	Store Storage
}

// SetupRoutes регистрирует маршруты служебного API.
func SetupRoutes(r *chi.Mux, deps ApiDependencies) {
	r.Get("/healthz", HealthHandler(deps))
	r.Get("/api/stats", StatsHandler(deps))
	r.Get("/api/users", UsersHandler(deps))
}
