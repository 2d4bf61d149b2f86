package models

import (
	"encoding/json"
	"testing"

	"github.com/craftfolio/studio_backend/utils"
)

// The cache entry must carry the access code hash through JSON even though
// the settings struct hides it from API responses. Losing the hash in the
// cache would let code-protected pages serve without a code.
func TestScheduleSettingsCachePreservesAccessCodeHash(t *testing.T) {
	settings := ScheduleSettings{
		AccountId:      "acc-1",
		Slug:           "demo-studio",
		AccessCodeHash: "$2a$10$hash",
		IsPublic:       utils.NewTrue(),
	}

	// The struct's own serialization drops the hash.
	plain, err := json.Marshal(settings)
	if err != nil {
		t.Fatal(err)
	}
	var fromPlain ScheduleSettings
	if err := json.Unmarshal(plain, &fromPlain); err != nil {
		t.Fatal(err)
	}
	if fromPlain.AccessCodeHash != "" {
		t.Error("plain settings JSON should not carry the access code hash")
	}

	// The cache envelope keeps it.
	entry := scheduleSettingsCache{ScheduleSettings: settings, AccessCodeHash: settings.AccessCodeHash}
	raw, err := json.Marshal(&entry)
	if err != nil {
		t.Fatal(err)
	}
	var restored scheduleSettingsCache
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatal(err)
	}
	recovered := restored.ScheduleSettings
	recovered.AccessCodeHash = restored.AccessCodeHash
	if recovered.AccessCodeHash != settings.AccessCodeHash {
		t.Errorf("cache round trip lost the hash: got %q", recovered.AccessCodeHash)
	}
	if recovered.Slug != settings.Slug || recovered.AccountId != settings.AccountId {
		t.Error("cache round trip lost settings fields")
	}
	if recovered.VerifyScheduleAccessCode("") {
		t.Error("restored settings should still require the access code")
	}
}
