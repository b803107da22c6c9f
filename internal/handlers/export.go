package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/ecotrack-lk/backend/internal/models"
	"github.com/ecotrack-lk/backend/internal/recommend"
)

var recommendationExportHeader = []string{
	"Vehicle ID",
	"Vehicle Type",
	"Maintenance Item",
	"Status",
	"Basis",
	"Last Done",
	"Estimated Annual Km",
	"Next Maintenance (Days)",
	"Pollution Impact",
}

// ExportRecommendations handles GET /api/maintenance/recommendations/export,
// streaming the current recommendation list as an xlsx workbook.
func (s *Server) ExportRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := recommend.Assemble(r.Context(), s.deps.Vehicles, s.deps.Standards)
	if err != nil {
		logrus.WithError(err).Error("Failed to assemble recommendations for export")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate recommendations"})
		return
	}

	report, err := generateRecommendationWorkbook(recs)
	if err != nil {
		logrus.WithError(err).Error("Failed to build recommendation workbook")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to build export"})
		return
	}

	filename := fmt.Sprintf("maintenance-recommendations-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(report)
}

// generateRecommendationWorkbook renders recommendations into a single-sheet
// xlsx file.
func generateRecommendationWorkbook(recs []models.Recommendation) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Recommendations"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range recommendationExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, rec := range recs {
		row := rowIdx + 2
		values := []interface{}{
			rec.VehicleID,
			rec.VehicleType,
			rec.MaintenanceItem,
			string(rec.Status),
			string(rec.Basis),
			stringOrEmpty(rec.LastDone),
			floatOrEmpty(rec.EstimatedAnnualKm),
			floatOrEmpty(rec.NextMaintenanceDays),
			strings.Join(rec.PollutionImpact, ", "),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "I", 22); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func stringOrEmpty(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
