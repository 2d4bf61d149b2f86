// seed-demo populates a demo account with a booking page, meeting types,
// clients and a sample proposal so a fresh environment has something to
// click through.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/shopspring/decimal"
)

const demoAccountId = "demo-account"

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.MigrateDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	ctx = utils.SetAccountIdInContext(ctx, demoAccountId)
	ctx = utils.SetUserIdInContext(ctx, 1)

	var availability models.WeekAvailability
	for day := 1; day <= 5; day++ {
		availability[day] = models.DayAvailability{Enabled: true, StartTime: "09:00", EndTime: "17:00"}
	}
	if _, err := models.SaveScheduleSettings(ctx, &models.NewScheduleSettings{
		Slug:                "demo-studio",
		DisplayName:         "Demo Studio",
		WelcomeMessage:      "Pick a time that works for you.",
		Timezone:            "America/New_York",
		Availability:        availability,
		AdvanceNoticeHours:  24,
		MaxDaysOut:          60,
		SlotIntervalMinutes: 30,
		IsPublic:            utils.NewTrue(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed schedule settings: %v\n", err)
		os.Exit(1)
	}

	meetingTypes := []models.NewMeetingType{
		{Name: "Intro Call", DurationMinutes: 30, Location: models.LocationTypeZoom},
		{Name: "Project Kickoff", DurationMinutes: 60, Location: models.LocationTypeGoogleMeet},
		{Name: "Paid Consultation", DurationMinutes: 45, Location: models.LocationTypeZoom, Price: decimal.NewFromInt(150)},
	}
	for i := range meetingTypes {
		if _, err := models.CreateMeetingType(ctx, &meetingTypes[i]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed meeting type %q: %v\n", meetingTypes[i].Name, err)
		}
	}

	client, err := models.CreateClient(ctx, &models.NewClient{
		Name:    "Acme Web Co",
		Email:   "hello@acmeweb.example",
		Company: "Acme Web Co",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed client: %v\n", err)
		os.Exit(1)
	}

	proposal, err := models.CreateProposal(ctx, &models.NewProposal{
		Title:    "Website Redesign",
		ClientId: client.ID,
		Client:   models.ClientInfo{Name: client.Name, Email: client.Email},
		PricingItems: []models.PricingLineItem{
			{Name: "Design", Price: decimal.NewFromInt(4000)},
			{Name: "Development", Price: decimal.NewFromInt(6000)},
		},
		PaymentPlan: models.PaymentPlan{Enabled: true, Type: models.PaymentPlanTypeHalves},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed proposal: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeded demo account %s: client #%d, proposal #%d\n", demoAccountId, client.ID, proposal.ID)
}
