package services

import (
	"context"
	"fmt"
	"time"

	"gearguard/internal/repositories"
	"gearguard/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	BuildRequestReport(ctx context.Context, params utils.QueryParams) (*excelize.File, error)
}

type ReportService struct {
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(requestRepo repositories.RequestRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{requestRepo: requestRepo, logger: logger}
}

var reportHeader = []string{
	"Request ID", "Subject", "Equipment", "Serial Number", "Type",
	"Priority", "Team", "Technician", "Status", "Scheduled Date",
	"Duration (h)", "Overdue", "Created At",
}

// BuildRequestReport renders the filtered request list as a spreadsheet.
// Pagination is overridden: an export always covers the whole filtered set.
func (s *ReportService) BuildRequestReport(ctx context.Context, params utils.QueryParams) (*excelize.File, error) {
	params.Limit = 100000
	params.Offset = 0

	requests, _, err := s.requestRepo.GetRequests(ctx, params)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	sheet := "Requests"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name report sheet: %w", err)
	}

	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
	}

	now := time.Now()
	for i := range requests {
		req := &requests[i]
		row := toRequestDTO(req)

		teamName := ""
		if row.Team != nil {
			teamName = row.Team.Name
		}
		technicianName := ""
		if row.Technician != nil {
			technicianName = row.Technician.FullName
		}
		scheduled := ""
		if row.ScheduledDate != nil {
			scheduled = *row.ScheduledDate
		}
		var duration interface{}
		if row.DurationHours != nil {
			duration = *row.DurationHours
		}

		values := []interface{}{
			row.DisplayID, row.Subject, row.Equipment.Name, row.Equipment.SerialNumber,
			row.RequestType, row.Priority, teamName, technicianName,
			row.StatusLabel, scheduled, duration, req.IsOverdue(now), row.CreatedAt,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	s.logger.Info("request report built", zap.Int("rows", len(requests)))
	return file, nil
}
