package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeToken creates a base64 encoded token from the sort key of the last
// report of a page.
func EncodeToken(cursor domain.ReportCursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", cursor.Date.UTC().Format(timeFormat), cursor.SubmittedAt.UTC().Format(timeFormat), cursor.ReportID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (*domain.ReportCursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return nil, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	submittedAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (submitted_at parse): %w", err)
	}

	return &domain.ReportCursor{Date: date, SubmittedAt: submittedAt, ReportID: parts[2]}, nil
}

// NextToken returns the token for the page after reports, or "" when reports
// is the last page.
func NextToken(reports []domain.ReportDetails, limit int) string {
	if limit <= 0 || len(reports) < limit {
		return ""
	}
	return EncodeToken(domain.CursorOf(reports[len(reports)-1].AvailabilityReport))
}
