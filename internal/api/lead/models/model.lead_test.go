package models

import (
	"testing"
)

func TestIsValidLeadStatus(t *testing.T) {
	valid := []string{LeadStatusNew, LeadStatusContacted, LeadStatusViewing, LeadStatusNegotiation, LeadStatusClosed}
	for _, s := range valid {
		if !IsValidLeadStatus(s) {
			t.Errorf("IsValidLeadStatus(%q) = false, muốn true", s)
		}
	}

	invalid := []string{"", "new", "closed", "CLOSED", "Pending", "Won"}
	for _, s := range invalid {
		if IsValidLeadStatus(s) {
			t.Errorf("IsValidLeadStatus(%q) = true, muốn false", s)
		}
	}
}

func TestIsValidActivityKind(t *testing.T) {
	valid := []string{ActivityKindCreation, ActivityKindAssignment, ActivityKindStatusChange, ActivityKindNote, ActivityKindContact}
	for _, k := range valid {
		if !IsValidActivityKind(k) {
			t.Errorf("IsValidActivityKind(%q) = false, muốn true", k)
		}
	}

	invalid := []string{"", "Note", "status-change", "call"}
	for _, k := range invalid {
		if IsValidActivityKind(k) {
			t.Errorf("IsValidActivityKind(%q) = true, muốn false", k)
		}
	}
}

// Wording của mô tả hoạt động là hợp đồng với frontend, không được đổi.
func TestActivityDescriptions(t *testing.T) {
	if DescLeadCreated != "Lead created" {
		t.Errorf("DescLeadCreated = %q, muốn %q", DescLeadCreated, "Lead created")
	}
	if DescLeadAssigned != "Lead assigned to agent" {
		t.Errorf("DescLeadAssigned = %q, muốn %q", DescLeadAssigned, "Lead assigned to agent")
	}

	got := StatusChangeDescription(LeadStatusClosed)
	if got != "Status changed to Closed" {
		t.Errorf("StatusChangeDescription(Closed) = %q, muốn %q", got, "Status changed to Closed")
	}
	got = StatusChangeDescription(LeadStatusContacted)
	if got != "Status changed to Contacted" {
		t.Errorf("StatusChangeDescription(Contacted) = %q, muốn %q", got, "Status changed to Contacted")
	}
}

func TestNewLeadActivity(t *testing.T) {
	activity := NewLeadActivity(ActivityKindNote, "Gọi lại sau 2 ngày")

	if activity.Kind != ActivityKindNote {
		t.Errorf("Kind = %q, muốn %q", activity.Kind, ActivityKindNote)
	}
	if activity.Description != "Gọi lại sau 2 ngày" {
		t.Errorf("Description = %q, muốn %q", activity.Description, "Gọi lại sau 2 ngày")
	}
	if activity.Timestamp <= 0 {
		t.Errorf("Timestamp = %d, muốn > 0", activity.Timestamp)
	}
}
