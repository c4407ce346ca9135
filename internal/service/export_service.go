package service

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	overviewSheet = "Overview"
	coursesSheet  = "Courses"
)

// ExportService renders analytics as spreadsheets
type ExportService struct {
	analytics *AnalyticsService
}

// NewExportService creates a new export service
func NewExportService(analytics *AnalyticsService) *ExportService {
	return &ExportService{analytics: analytics}
}

// TeacherOverviewXLSX writes the teacher overview as an .xlsx workbook
func (s *ExportService) TeacherOverviewXLSX(ctx context.Context, teacherID string, w io.Writer) error {
	overview, err := s.analytics.TeacherOverview(ctx, teacherID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Total courses", overview.TotalCourses},
		{"Total students", overview.TotalStudents},
		{"Total feedback", overview.TotalFeedback},
		{"Average performance", overview.AvgPerformance},
	}
	for i, row := range summary {
		if err := setRow(f, overviewSheet, i+1, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(coursesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	header := []interface{}{"Code", "Title", "Enrolled", "Feedback", "Avg rating", "Performance"}
	if err := setRow(f, coursesSheet, 1, header); err != nil {
		return err
	}
	for i, c := range overview.CoursesAnalytics {
		row := []interface{}{c.CourseCode, c.CourseTitle, c.Enrolled, c.FeedbackCount, c.AvgRating, c.PerformanceScore}
		if err := setRow(f, coursesSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
