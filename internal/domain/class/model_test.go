package class

import "testing"

// TestParseArmorCategory tests boundary validation of armor categories.
func TestParseArmorCategory(t *testing.T) {
	got, err := ParseArmorCategory("plate")
	if err != nil || got != ArmorPlate {
		t.Errorf("ParseArmorCategory(plate) = %v, %v", got, err)
	}
	if _, err := ParseArmorCategory("CHAIN"); err == nil {
		t.Error("expected error for unknown armor category")
	}
}

// TestClass_Validate tests class validation rules.
func TestClass_Validate(t *testing.T) {
	c := Class{Name: "Mage", ArmorCategory: ArmorCloth, TierPrefix: "Mystic"}
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := Class{ArmorCategory: ArmorCloth, TierPrefix: "Mystic"}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty name")
	}
	bad = Class{Name: "Mage", ArmorCategory: "SILK", TierPrefix: "Mystic"}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown armor category")
	}
	bad = Class{Name: "Mage", ArmorCategory: ArmorCloth}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty tier prefix")
	}
}
