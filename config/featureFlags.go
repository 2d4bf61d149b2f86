package config

import (
	"os"
	"strings"
)

// Plan tiers gate export and scheduling features. Resolved once per request
// from the account's plan string and passed into workflows explicitly,
// never read as ambient global state from inside components.
const (
	PlanTierFree   = "free"
	PlanTierPro    = "pro"
	PlanTierAgency = "agency"
)

// PlanLimits is the explicit configuration handed to workflows.
type PlanLimits struct {
	Tier                  string
	PDFExportEnabled      bool
	ScheduleExport        bool
	MaxActiveProposals    int
	MaxMeetingTypes       int
	CustomBrandingAllowed bool
}

func ResolvePlanLimits(plan string) PlanLimits {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case PlanTierAgency:
		return PlanLimits{
			Tier:                  PlanTierAgency,
			PDFExportEnabled:      true,
			ScheduleExport:        true,
			MaxActiveProposals:    0, // unlimited
			MaxMeetingTypes:       0,
			CustomBrandingAllowed: true,
		}
	case PlanTierPro:
		return PlanLimits{
			Tier:                  PlanTierPro,
			PDFExportEnabled:      true,
			ScheduleExport:        true,
			MaxActiveProposals:    intFromEnv("PLAN_PRO_MAX_PROPOSALS", 100),
			MaxMeetingTypes:       intFromEnv("PLAN_PRO_MAX_MEETING_TYPES", 25),
			CustomBrandingAllowed: true,
		}
	default:
		return PlanLimits{
			Tier:                  PlanTierFree,
			PDFExportEnabled:      freeExportOverride(),
			ScheduleExport:        false,
			MaxActiveProposals:    intFromEnv("PLAN_FREE_MAX_PROPOSALS", 3),
			MaxMeetingTypes:       intFromEnv("PLAN_FREE_MAX_MEETING_TYPES", 2),
			CustomBrandingAllowed: false,
		}
	}
}

// AllowsNewProposal reports whether one more open proposal fits under the
// tier's cap. A zero cap means unlimited.
func (l PlanLimits) AllowsNewProposal(activeCount int64) bool {
	return l.MaxActiveProposals == 0 || activeCount < int64(l.MaxActiveProposals)
}

// AllowsNewMeetingType reports whether one more meeting type fits under the
// tier's cap. A zero cap means unlimited.
func (l PlanLimits) AllowsNewMeetingType(count int64) bool {
	return l.MaxMeetingTypes == 0 || count < int64(l.MaxMeetingTypes)
}

// PLAN_FREE_PDF_EXPORT=true lets self-hosted deployments enable export on free tier.
func freeExportOverride() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("PLAN_FREE_PDF_EXPORT")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
