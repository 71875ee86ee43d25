package class

import (
	"errors"
	"fmt"
	"strings"
)

// ArmorCategory is the closed set of wearable armor weights.
type ArmorCategory string

const (
	ArmorCloth   ArmorCategory = "CLOTH"
	ArmorLeather ArmorCategory = "LEATHER"
	ArmorMail    ArmorCategory = "MAIL"
	ArmorPlate   ArmorCategory = "PLATE"
)

// ParseArmorCategory validates a raw armor category string at the boundary.
// Matching is case-insensitive; the canonical upper-case form is returned.
func ParseArmorCategory(s string) (ArmorCategory, error) {
	switch ArmorCategory(strings.ToUpper(strings.TrimSpace(s))) {
	case ArmorCloth:
		return ArmorCloth, nil
	case ArmorLeather:
		return ArmorLeather, nil
	case ArmorMail:
		return ArmorMail, nil
	case ArmorPlate:
		return ArmorPlate, nil
	}
	return "", fmt.Errorf("unknown armor category %q", s)
}

// Class is a character archetype. Static reference data, one row per
// archetype.
type Class struct {
	ID            int64
	Name          string
	ArmorCategory ArmorCategory
	TierPrefix    string
}

// Validate checks if the Class has valid data.
// PRE: Class struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("class name cannot be empty")
	}
	if _, err := ParseArmorCategory(string(c.ArmorCategory)); err != nil {
		return err
	}
	if strings.TrimSpace(c.TierPrefix) == "" {
		return errors.New("class tier prefix cannot be empty")
	}
	return nil
}
