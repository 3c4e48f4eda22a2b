package export

import (
	"fmt"
	"io"
	"sort"

	"sportclub/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	reservationsSheet = "Reservations"
	summarySheet      = "Summary"
)

var reservationHeaders = []string{
	"ID", "Campo", "Data", "Inizio", "Fine", "Stato", "Telefono", "Attività", "Creata",
}

// Reservations writes an xlsx workbook with one row per reservation and a
// per-field status summary.
func Reservations(w io.Writer, list []*models.Reservation, from, to models.Date) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reservationsSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	// Заголовок периода
	_ = f.SetCellValue(reservationsSheet, "A1", fmt.Sprintf("Periodo: %s - %s",
		from.Format("02/01/2006"), to.Format("02/01/2006")))
	_ = f.MergeCell(reservationsSheet, "A1", "I1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(reservationsSheet, "A1", "A1", titleStyle)

	if err := writeHeaders(f, reservationsSheet, 2, reservationHeaders); err != nil {
		return err
	}

	styles := map[string]int{}
	for i, r := range list {
		row := i + 3
		values := []interface{}{
			r.ID,
			r.FieldName,
			r.Date.Format("02/01/2006"),
			r.StartTime.String(),
			r.EndTime.String(),
			r.Status,
			r.Phone,
			r.ActivityType,
			r.CreatedAt.Format("02/01/2006 15:04"),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(reservationsSheet, start, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", row, err)
		}

		style, ok := styles[r.Status]
		if !ok {
			style, err = statusStyle(f, r.Status)
			if err != nil {
				return err
			}
			styles[r.Status] = style
		}
		cell, _ := excelize.CoordinatesToCellName(6, row)
		_ = f.SetCellStyle(reservationsSheet, cell, cell, style)
	}

	_ = f.SetColWidth(reservationsSheet, "A", "A", 8)
	_ = f.SetColWidth(reservationsSheet, "B", "B", 25)
	_ = f.SetColWidth(reservationsSheet, "C", "F", 12)
	_ = f.SetColWidth(reservationsSheet, "G", "H", 18)
	_ = f.SetColWidth(reservationsSheet, "I", "I", 18)

	if err := writeSummary(f, list); err != nil {
		return err
	}

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

var summaryStatuses = []string{
	models.StatusPending, models.StatusConfirmed, models.StatusCancelled, models.StatusExpired,
}

func writeSummary(f *excelize.File, list []*models.Reservation) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	headers := append([]string{"Campo"}, summaryStatuses...)
	headers = append(headers, "Totale")
	if err := writeHeaders(f, summarySheet, 1, headers); err != nil {
		return err
	}

	counts := make(map[string]map[string]int)
	for _, r := range list {
		if counts[r.FieldName] == nil {
			counts[r.FieldName] = make(map[string]int)
		}
		counts[r.FieldName][r.Status]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		values := []interface{}{name}
		total := 0
		for _, status := range summaryStatuses {
			values = append(values, counts[name][status])
			total += counts[name][status]
		}
		values = append(values, total)

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("error writing summary row: %w", err)
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 25)
	return nil
}

func writeHeaders(f *excelize.File, sheet string, row int, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}

// statusStyle colours the status cell: green confirmed, yellow pending, red otherwise.
func statusStyle(f *excelize.File, status string) (int, error) {
	color := "#FFC7CE"
	switch status {
	case models.StatusConfirmed:
		color = "#C6EFCE"
	case models.StatusPending:
		color = "#FFEB9C"
	}
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}
