package serviceImp

import (
	"time"

	"github.com/xuri/excelize/v2"

	"agriverse/entities"
)

const exportSheet = "Schedule"

func taskStatus(t entities.ScheduleTask) string {
	switch {
	case t.Completed:
		return "done"
	case t.Skipped:
		return "skipped"
	}
	return "pending"
}

func renderWorkbook(s *entities.CropSchedule) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}
	start, startErr := time.Parse(dateLayout, s.StartDate)

	header := []any{"Day", "Date", "Phase", "Task", "Description", "Priority", "Status"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, t := range s.Schedule {
		date := ""
		if startErr == nil {
			date = start.AddDate(0, 0, t.Day).Format(dateLayout)
		}
		row := []any{t.Day, date, t.Phase, t.Task, t.Description, t.Priority, taskStatus(t)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "D", "E", 40); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
