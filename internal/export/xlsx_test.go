package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportsXLSX(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	data, err := export.ReportsXLSX([]domain.ReportDetails{
		{
			AvailabilityReport: domain.AvailabilityReport{
				Date:         day,
				Status:       domain.AvailabilityAvailable,
				LocationText: "Haifa",
				Notes:        "all day",
				SubmittedAt:  day.Add(8 * time.Hour),
			},
			UserName:  "Dana Levi",
			UserEmail: "dana@x.com",
			UnitName:  "Team1",
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, export.ReportHeaders, rows[0])
	assert.Equal(t, []string{"Dana Levi", "dana@x.com", "Team1", "2026-03-01", "available", "Haifa", "all day", "2026-03-01 08:00"}, rows[1])
}

func TestReportsXLSX_Empty(t *testing.T) {
	data, err := export.ReportsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
