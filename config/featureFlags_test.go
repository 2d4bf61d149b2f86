package config

import "testing"

func TestResolvePlanLimits(t *testing.T) {
	cases := []struct {
		plan     string
		wantTier string
	}{
		{"agency", PlanTierAgency},
		{"PRO", PlanTierPro},
		{" pro ", PlanTierPro},
		{"free", PlanTierFree},
		{"", PlanTierFree},
		{"unknown", PlanTierFree},
	}
	for _, c := range cases {
		if got := ResolvePlanLimits(c.plan).Tier; got != c.wantTier {
			t.Errorf("ResolvePlanLimits(%q).Tier = %q, want %q", c.plan, got, c.wantTier)
		}
	}

	free := ResolvePlanLimits("free")
	if free.ScheduleExport || free.CustomBrandingAllowed {
		t.Error("free tier should not allow schedule export or custom branding")
	}
	if free.MaxActiveProposals == 0 || free.MaxMeetingTypes == 0 {
		t.Error("free tier should carry finite caps")
	}

	agency := ResolvePlanLimits("agency")
	if !agency.PDFExportEnabled || !agency.CustomBrandingAllowed {
		t.Error("agency tier should allow export and custom branding")
	}
}

func TestPlanLimitsCaps(t *testing.T) {
	capped := PlanLimits{MaxActiveProposals: 3, MaxMeetingTypes: 2}
	if !capped.AllowsNewProposal(2) {
		t.Error("two open proposals should fit under a cap of three")
	}
	if capped.AllowsNewProposal(3) {
		t.Error("a third open proposal fills a cap of three")
	}
	if !capped.AllowsNewMeetingType(1) {
		t.Error("one meeting type should fit under a cap of two")
	}
	if capped.AllowsNewMeetingType(2) {
		t.Error("two meeting types fill a cap of two")
	}

	// Zero caps mean unlimited.
	unlimited := PlanLimits{}
	if !unlimited.AllowsNewProposal(10000) || !unlimited.AllowsNewMeetingType(10000) {
		t.Error("zero caps should never block creation")
	}
}
