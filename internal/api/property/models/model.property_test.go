package models

import (
	"testing"
)

func TestIsValidPropertyType(t *testing.T) {
	for _, v := range []string{PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCommercial, PropertyTypeLand} {
		if !IsValidPropertyType(v) {
			t.Errorf("IsValidPropertyType(%q) = false, muốn true", v)
		}
	}
	for _, v := range []string{"", "house", "Villa", "Office"} {
		if IsValidPropertyType(v) {
			t.Errorf("IsValidPropertyType(%q) = true, muốn false", v)
		}
	}
}

func TestIsValidPropertyStatus(t *testing.T) {
	for _, v := range []string{PropertyStatusActive, PropertyStatusSold, PropertyStatusDraft} {
		if !IsValidPropertyStatus(v) {
			t.Errorf("IsValidPropertyStatus(%q) = false, muốn true", v)
		}
	}
	for _, v := range []string{"", "active", "Pending", "Archived"} {
		if IsValidPropertyStatus(v) {
			t.Errorf("IsValidPropertyStatus(%q) = true, muốn false", v)
		}
	}
}
