package workflow

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/xuri/excelize/v2"
)

// ExportBookingsXLSX writes the account's bookings for a window into a
// spreadsheet, uploads it, and returns the access URL.
func ExportBookingsXLSX(ctx context.Context, from, to time.Time) (string, error) {

	logger := config.GetLogger()

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return "", fmt.Errorf("account id is required")
	}

	bookings, err := models.GetBookings(ctx, &models.BookingFilter{From: &from, To: &to})
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Bookings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Booking #", "Meeting", "Invitee", "Email", "Phone", "Location", "Starts", "Ends", "Status", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, b := range bookings {
		values := []interface{}{
			b.BookingNumber,
			b.MeetingName,
			b.InviteeName,
			b.InviteeEmail,
			b.InviteePhone,
			string(b.Location),
			b.StartsAt.Format("2006-01-02 15:04"),
			b.EndsAt.Format("2006-01-02 15:04"),
			string(b.Status),
			b.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		config.LogError(logger, "scheduleExport.go", "ExportBookingsXLSX", "Write", nil, err)
		return "", err
	}

	objectKey := fmt.Sprintf("exports/%s/bookings-%s.xlsx", accountId, time.Now().Format("20060102-150405"))
	if _, err := utils.UploadObject(ctx, objectKey, &buf, utils.UploadOptions{
		ContentType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		CacheControl: "private, max-age=0",
		Upsert:       true,
	}); err != nil {
		config.LogError(logger, "scheduleExport.go", "ExportBookingsXLSX", "UploadObject", objectKey, err)
		return "", err
	}
	return utils.BuildObjectAccessURL(objectKey), nil
}
