package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

// EventReportRow is one event in the admin export
type EventReportRow struct {
	ID                uint
	Title             string
	State             string
	Category          string
	Initiator         string
	EventDate         time.Time
	ParticipantLimit  int
	ConfirmedRequests int
	Paid              bool
}

// Exporter renders the events report in the requested format
type Exporter interface {
	ExportEvents(format string, rows []EventReportRow) ([]byte, string, string, error)
}

type exporter struct{}

func NewExporter() Exporter {
	return &exporter{}
}

// ExportEvents returns the file bytes, a timestamped filename and the content
// type for the chosen format
func (e *exporter) ExportEvents(format string, rows []EventReportRow) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatCSV:
		data, err := e.exportEventsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.csv", timestamp), "text/csv", nil

	case FormatExcel:
		data, err := e.exportEventsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.xlsx", timestamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportEventsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

var eventHeaders = []string{"ID", "Title", "State", "Category", "Initiator", "Event Date", "Limit", "Confirmed", "Paid"}

func eventValues(row EventReportRow) []string {
	return []string{
		strconv.FormatUint(uint64(row.ID), 10),
		row.Title,
		row.State,
		row.Category,
		row.Initiator,
		row.EventDate.Format("2006-01-02 15:04:05"),
		strconv.Itoa(row.ParticipantLimit),
		strconv.Itoa(row.ConfirmedRequests),
		strconv.FormatBool(row.Paid),
	}
}

func (e *exporter) exportEventsCSV(rows []EventReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(eventHeaders); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(eventValues(row)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) exportEventsExcel(rows []EventReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Events"
	f.SetSheetName("Sheet1", sheetName)

	for i, header := range eventHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, row := range rows {
		for j, v := range eventValues(row) {
			cell := fmt.Sprintf("%c%d", 'A'+j, i+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) exportEventsPDF(rows []EventReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Events Report")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{12, 60, 25, 35, 40, 35, 18, 22, 15}
	for i, h := range eventHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		for i, v := range eventValues(row) {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
