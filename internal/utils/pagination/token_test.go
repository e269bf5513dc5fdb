package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := domain.ReportCursor{
		Date:        time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		SubmittedAt: time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ReportID:    "3f9a6a9e-5b0c-4a55-9f25-1f0f2a9a0c11",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, cursor.Date.Equal(decoded.Date))
	assert.True(t, cursor.SubmittedAt.Equal(decoded.SubmittedAt))
	assert.Equal(t, cursor.ReportID, decoded.ReportID)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	_, err = DecodeToken(base64.RawURLEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z")))
	assert.ErrorContains(t, err, "split")

	_, err = DecodeToken(base64.RawURLEncoding.EncodeToString([]byte("notadate|2024-05-15T00:00:00Z|id")))
	assert.ErrorContains(t, err, "date parse")

	_, err = DecodeToken(base64.RawURLEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z|later|id")))
	assert.ErrorContains(t, err, "submitted_at parse")
}

func TestNextToken(t *testing.T) {
	day := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	reports := []domain.ReportDetails{
		{AvailabilityReport: domain.AvailabilityReport{ReportID: "b", Date: day, SubmittedAt: day.Add(2 * time.Hour)}},
		{AvailabilityReport: domain.AvailabilityReport{ReportID: "a", Date: day, SubmittedAt: day.Add(time.Hour)}},
	}

	assert.Empty(t, NextToken(reports, 0), "unpaged listings have no next page")
	assert.Empty(t, NextToken(reports, 3), "a short page is the last one")

	token := NextToken(reports, 2)
	require.NotEmpty(t, token)
	cursor, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a", cursor.ReportID)
}
