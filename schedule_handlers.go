package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/craftfolio/studio_backend/middlewares"
	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/craftfolio/studio_backend/workflow"
	"github.com/gin-gonic/gin"
)

func listMeetingTypesHandler(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	meetingTypes, err := models.GetMeetingTypes(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meetingTypes)
}

func createMeetingTypeHandler(c *gin.Context) {
	var input models.NewMeetingType
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}
	limits := accountPlanLimits(c)
	count, err := models.CountMeetingTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !limits.AllowsNewMeetingType(count) {
		c.JSON(http.StatusForbidden, gin.H{"error": "meeting type limit reached for the current plan"})
		return
	}

	meetingType, err := models.CreateMeetingType(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, meetingType)
}

func getMeetingTypeHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	meetingType, err := models.GetMeetingType(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meetingType)
}

func updateMeetingTypeHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewMeetingType
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meetingType, err := models.UpdateMeetingType(c.Request.Context(), id, &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meetingType)
}

func deleteMeetingTypeHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	meetingType, err := models.DeleteMeetingType(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meetingType)
}

func toggleMeetingTypeHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meetingType, err := models.ToggleMeetingTypeActive(c.Request.Context(), id, *body.IsActive)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meetingType)
}

func getScheduleSettingsHandler(c *gin.Context) {
	settings, err := models.GetScheduleSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings":   settings,
		"public_url": settings.PublicBookingURL(),
	})
}

func saveScheduleSettingsHandler(c *gin.Context) {
	var input models.NewScheduleSettings
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}
	settings, err := models.SaveScheduleSettings(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings":   settings,
		"public_url": settings.PublicBookingURL(),
	})
}

func bookingFilterFromQuery(c *gin.Context) *models.BookingFilter {
	filter := &models.BookingFilter{}
	if raw := c.Query("status"); raw != "" {
		s := models.BookingStatus(raw)
		filter.Status = &s
	}
	if raw := c.Query("meeting_type_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.MeetingTypeId = &id
		}
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &t
		}
	}
	return filter
}

func listBookingsHandler(c *gin.Context) {
	bookings, err := models.GetBookings(c.Request.Context(), bookingFilterFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func createBookingHandler(c *gin.Context) {
	var input models.NewBooking
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}
	booking, err := workflow.BookSlot(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func getBookingHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	booking, err := models.GetBooking(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"booking": booking}
	if booking.MeetingTypeId > 0 {
		if meetingType, err := middlewares.GetMeetingType(ctx, booking.MeetingTypeId); err == nil && meetingType != nil {
			response["meeting_type"] = meetingType
		}
	}
	c.JSON(http.StatusOK, response)
}

func completeBookingHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	booking, err := workflow.CompleteBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

func cancelBookingHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	booking, err := workflow.CancelBooking(c.Request.Context(), id, body.Reason)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// bookingCalendarHandler projects the account's bookings for a view window
// plus the list partition, filtered by facets.
func bookingCalendarHandler(c *gin.Context) {
	ctx := c.Request.Context()

	view := models.CalendarView(c.DefaultQuery("view", string(models.CalendarViewWeek)))
	ref := time.Now()
	if raw := c.Query("date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			ref = t
		}
	}
	loc := time.UTC
	if settings, err := models.GetScheduleSettings(ctx); err == nil {
		if l, err := time.LoadLocation(settings.Timezone); err == nil {
			loc = l
		}
	}

	filter := models.CalendarFilter{Search: c.Query("search")}
	if raw := c.Query("meeting_type_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.MeetingTypeIds = append(filter.MeetingTypeIds, id)
		}
	}
	for _, raw := range c.QueryArray("status") {
		filter.Statuses = append(filter.Statuses, models.BookingStatus(raw))
	}
	for _, raw := range c.QueryArray("location") {
		filter.Locations = append(filter.Locations, models.LocationType(raw))
	}

	bookings, err := models.GetBookings(ctx, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	filtered := models.FilterBookings(bookings, filter)

	if window, ok := models.WindowFor(view, ref, loc); ok {
		visible := models.BookingsInWindow(filtered, window)
		c.JSON(http.StatusOK, gin.H{
			"view":          view,
			"from":          window.From,
			"to":            window.To,
			"bookings":      visible,
			"meeting_types": calendarMeetingTypes(ctx, visible),
		})
		return
	}

	partition := models.PartitionBookings(filtered, time.Now(), loc)
	c.JSON(http.StatusOK, gin.H{
		"view":          models.CalendarViewList,
		"today":         partition.Today,
		"upcoming":      partition.Upcoming,
		"past":          partition.Past,
		"meeting_types": calendarMeetingTypes(ctx, filtered),
	})
}

// calendarMeetingTypes batch-loads the meeting types referenced by a set of
// bookings so the calendar can show names and colors without N+1 queries.
func calendarMeetingTypes(ctx context.Context, bookings []*models.Booking) map[int]*models.MeetingType {
	seen := map[int]bool{}
	var ids []int
	for _, b := range bookings {
		if b.MeetingTypeId > 0 && !seen[b.MeetingTypeId] {
			seen[b.MeetingTypeId] = true
			ids = append(ids, b.MeetingTypeId)
		}
	}

	byId := make(map[int]*models.MeetingType, len(ids))
	if len(ids) == 0 {
		return byId
	}
	loaded, _ := middlewares.GetMeetingTypes(ctx, ids)
	for _, mt := range loaded {
		if mt != nil {
			byId[mt.ID] = mt
		}
	}
	return byId
}

func exportBookingsHandler(c *gin.Context) {
	if !accountPlanLimits(c).ScheduleExport {
		c.JSON(http.StatusForbidden, gin.H{"error": "booking export is not available on the current plan"})
		return
	}

	from := time.Now().AddDate(0, -1, 0)
	to := time.Now().AddDate(0, 1, 0)
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			to = t
		}
	}

	url, err := workflow.ExportBookingsXLSX(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

/* Public scheduling page */

func publicSchedulePageHandler(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := models.GetScheduleSettingsBySlug(ctx, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule page not found"})
		return
	}
	if !settings.VerifyScheduleAccessCode(c.Query("access_code")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid access code"})
		return
	}

	meetingTypes, err := models.GetMeetingTypes(utils.SetAccountIdInContext(ctx, settings.AccountId), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"display_name":    settings.DisplayName,
		"welcome_message": settings.WelcomeMessage,
		"timezone":        settings.Timezone,
		"meeting_types":   meetingTypes,
	})
}

func publicSlotsHandler(c *gin.Context) {
	meetingTypeId, err := strconv.Atoi(c.Query("meeting_type_id"))
	if err != nil || meetingTypeId < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meeting_type_id is required"})
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	slots, err := workflow.AvailableSlots(c.Request.Context(), c.Param("slug"), meetingTypeId, date)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func publicBookingHandler(c *gin.Context) {
	var body struct {
		AccessCode string            `json:"access_code"`
		Booking    models.NewBooking `json:"booking" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := workflow.BookPublicSlot(c.Request.Context(), c.Param("slug"), body.AccessCode, &body.Booking)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, booking)
}
