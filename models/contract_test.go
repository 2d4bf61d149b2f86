package models

import (
	"reflect"
	"strings"
	"testing"
)

// The status column's enum must admit every value IsValid accepts, or writes
// of a valid status would fail at the database.
func TestContractStatusColumnCoversValidValues(t *testing.T) {
	field, ok := reflect.TypeOf(Contract{}).FieldByName("Status")
	if !ok {
		t.Fatal("Contract has no Status field")
	}
	tag := field.Tag.Get("gorm")

	for _, status := range []ContractStatus{
		ContractStatusDraft, ContractStatusSent, ContractStatusSigned,
		ContractStatusDeclined, ContractStatusExpired, ContractStatusArchived,
	} {
		if !status.IsValid() {
			t.Errorf("%s should be a valid contract status", status)
		}
		if !strings.Contains(tag, "'"+string(status)+"'") {
			t.Errorf("status column enum missing %q", status)
		}
	}
}
