package editor

import (
	"fmt"

	"staybook/internal/domain"
)

// CategoryID names one navigable information section of a property.
type CategoryID string

const (
	General         CategoryID = "general"
	CheckInOut      CategoryID = "checkinout"
	Wifi            CategoryID = "wifi"
	Equipment       CategoryID = "equipment"
	Rules           CategoryID = "rules"
	Instructions    CategoryID = "instructions"
	Parking         CategoryID = "parking"
	Transport       CategoryID = "transport"
	Security        CategoryID = "security"
	Services        CategoryID = "services"
	BabyKids        CategoryID = "babykids"
	Pets            CategoryID = "pets"
	Entertainment   CategoryID = "entertainment"
	Outdoor         CategoryID = "outdoor"
	Neighborhood    CategoryID = "neighborhood"
	Emergency       CategoryID = "emergency"
	Contacts        CategoryID = "contacts"
	Recommendations CategoryID = "recommendations"
)

// Categories returns every category in navigation order.
func Categories() []CategoryID {
	out := make([]CategoryID, len(schemas))
	for i, s := range schemas {
		out[i] = s.Category
	}
	return out
}

func ParseCategory(s string) (CategoryID, error) {
	for _, sc := range schemas {
		if string(sc.Category) == s {
			return sc.Category, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// EnabledCategories reads the enabled flag of every section from p. It is
// recomputed on each call so a freshly saved toggle shows up immediately.
func EnabledCategories(p *domain.Property) map[CategoryID]bool {
	doc := propertyDoc(p)
	out := make(map[CategoryID]bool, len(schemas))
	for _, sc := range schemas {
		if sc.Key == "" {
			out[sc.Category] = true
			continue
		}
		sec, _ := doc[sc.Key].(map[string]any)
		on, _ := sec["enabled"].(bool)
		out[sc.Category] = on
	}
	return out
}

// NavItem is one row of the category menu. Muted rows stay selectable so a
// host can open a disabled section to turn it on.
type NavItem struct {
	ID     CategoryID
	Label  string
	Active bool
	Muted  bool
}

func NavItems(p *domain.Property, active CategoryID) []NavItem {
	enabled := EnabledCategories(p)
	out := make([]NavItem, 0, len(schemas))
	for _, sc := range schemas {
		out = append(out, NavItem{
			ID:     sc.Category,
			Label:  sc.Label,
			Active: sc.Category == active,
			Muted:  sc.Category != General && !enabled[sc.Category],
		})
	}
	return out
}
