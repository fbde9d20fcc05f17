package application

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportSheet is the worksheet name of a booking export.
const ExportSheet = "Bookings"

// XLSXContentType is the media type of an export.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"Booking Number", "Status", "Booking Date", "Room", "Check-in", "Check-out",
	"Nights", "Rooms", "Adults", "Children", "Guest Name", "Guest Email",
	"Payment Method", "Card Last Four", "Total (USD)",
}

// ExportForUser renders the user's booking history as an .xlsx workbook,
// newest booking first.
func (s *LedgerService) ExportForUser(ctx context.Context, email string) ([]byte, error) {
	page, err := s.ListUserBookings(ctx, email, ListOptions{SortRecent: true})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(ExportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write export header: %w", err)
		}
	}

	for row, b := range page.Items {
		values := []interface{}{
			b.BookingNumber, b.Status, b.BookingDate.String(), b.Room.Name,
			b.CheckIn.String(), b.CheckOut.String(), b.Nights, b.RoomCount,
			b.Adults, b.Children, b.GuestName, b.GuestEmail,
			b.PaymentMethod, b.PaymentLastFour, float64(b.TotalCents) / 100,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(ExportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write export row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	s.logger.Debug("booking export rendered")
	return buf.Bytes(), nil
}
