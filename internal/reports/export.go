// Package reports формирует xlsx-отчёты для операторов.
package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"supportbot/internal/db"
)

// BuildUsersReport собирает отчёт по пользователям и числу пересланных
// сообщений в виде xlsx-файла.
func BuildUsersReport(rows []db.UserReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Пользователи"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"User ID", "Username", "Топик", "Создан", "Переслано сообщений"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("report header: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("report header: %w", err)
		}
	}

	for i, r := range rows {
		values := []interface{}{
			r.UserID,
			r.Username,
			r.ThreadID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Relayed,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("report row %d: %w", i, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("report row %d: %w", i, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("report write: %w", err)
	}
	return buf.Bytes(), nil
}
