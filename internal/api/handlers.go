package api

import (
	"encoding/json"
	"log"
	"net/http"
)

type jsonResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, resp jsonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("api: ошибка записи ответа: %v", err)
	}
}

// HealthHandler проверяет доступность базы данных.
func HealthHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.Ping(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, jsonResponse{Status: "error", Message: "database unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, jsonResponse{Status: "ok"})
	}
}

// StatsHandler отдаёт сводные счётчики.
func StatsHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.Store.CountUsers()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Status: "error", Message: err.Error()})
			return
		}
		relayed, err := deps.Store.CountBotMessages()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Status: "error", Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, jsonResponse{
			Status: "ok",
			Data: map[string]int{
				"users":            users,
				"relayed_messages": relayed,
			},
		})
	}
}

// UsersHandler отдаёт список пользователей с числом пересланных сообщений.
func UsersHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := deps.Store.ListUsersWithMessageCounts()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Status: "error", Message: err.Error()})
			return
		}
		type userRow struct {
			UserID    int64  `json:"user_id"`
			Username  string `json:"username"`
			ThreadID  int    `json:"thread_id"`
			CreatedAt string `json:"created_at"`
			Relayed   int    `json:"relayed"`
		}
		out := make([]userRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, userRow{
				UserID:    row.UserID,
				Username:  row.Username,
				ThreadID:  row.ThreadID,
				CreatedAt: row.CreatedAt.Format("2006-01-02 15:04:05"),
				Relayed:   row.Relayed,
			})
		}
		writeJSON(w, http.StatusOK, jsonResponse{Status: "ok", Data: out})
	}
}
