package learner

import (
	"errors"
	"fmt"
	"slices"
)

// ItemKind is the slot a shop item occupies.
type ItemKind string

const (
	KindAvatar    ItemKind = "avatar"
	KindAccessory ItemKind = "accessory"
	KindTheme     ItemKind = "theme"
)

// AllItemKinds returns all kinds in display order.
func AllItemKinds() []ItemKind {
	return []ItemKind{KindAvatar, KindAccessory, KindTheme}
}

// DisplayName returns a human-readable label for the kind.
func (k ItemKind) DisplayName() string {
	switch k {
	case KindAvatar:
		return "Avatars"
	case KindAccessory:
		return "Accessories"
	case KindTheme:
		return "Themes"
	default:
		return string(k)
	}
}

// Item is a cosmetic reward bought with mastery points.
type Item struct {
	ID          string
	Kind        ItemKind
	Name        string
	Cost        int
	Value       string // emoji for avatars/accessories, theme name for themes
	Description string
}

var shopItems = []Item{
	{ID: "av_student", Kind: KindAvatar, Name: "Scholar", Cost: 0, Value: "🧑‍🎓", Description: "Default scholar"},
	{ID: "av_robot", Kind: KindAvatar, Name: "RoboMath", Cost: 50, Value: "🤖", Description: "Calculates fast"},
	{ID: "av_cat", Kind: KindAvatar, Name: "Professor Meow", Cost: 100, Value: "🐱", Description: "Purrfect logic"},
	{ID: "av_alien", Kind: KindAvatar, Name: "Galactic Mind", Cost: 150, Value: "👽", Description: "Universal math"},
	{ID: "av_fox", Kind: KindAvatar, Name: "Sly Solver", Cost: 200, Value: "🦊", Description: "Tricky problems"},

	{ID: "acc_glasses", Kind: KindAccessory, Name: "Smart Glasses", Cost: 80, Value: "👓", Description: "See the answer"},
	{ID: "acc_crown", Kind: KindAccessory, Name: "Math King", Cost: 300, Value: "👑", Description: "Rule the numbers"},
	{ID: "acc_grad", Kind: KindAccessory, Name: "Cap", Cost: 120, Value: "🎓", Description: "Graduated"},

	{ID: "th_default", Kind: KindTheme, Name: "Clean White", Cost: 0, Value: "default", Description: "Classic look"},
	{ID: "th_dark", Kind: KindTheme, Name: "Night Mode", Cost: 100, Value: "night", Description: "Easy on eyes"},
	{ID: "th_purple", Kind: KindTheme, Name: "Royal", Cost: 150, Value: "royal", Description: "Regal learning"},
}

// Shop errors.
var (
	ErrUnknownItem        = errors.New("unknown item")
	ErrAlreadyOwned       = errors.New("item already owned")
	ErrInsufficientPoints = errors.New("not enough points")
	ErrNotOwned           = errors.New("item not owned")
)

// ShopItems returns the catalog, optionally filtered to one kind.
func ShopItems(kind ItemKind) []Item {
	var out []Item
	for _, it := range shopItems {
		if kind == "" || it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// ItemByID looks up a catalog item.
func ItemByID(id string) (Item, bool) {
	for _, it := range shopItems {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// DefaultInventory is what every new learner owns.
func DefaultInventory() []string {
	return []string{"av_student", "th_default"}
}

// DefaultEquipped is the starting look.
func DefaultEquipped() Equipped {
	return Equipped{Avatar: "🧑‍🎓", Theme: "default"}
}

// Owns reports whether the item is in the inventory.
func (s *State) Owns(itemID string) bool {
	return slices.Contains(s.Inventory, itemID)
}

// Unlock buys an item, deducting its cost. Nothing changes on error.
func (s *State) Unlock(itemID string) error {
	it, ok := ItemByID(itemID)
	if !ok {
		return fmt.Errorf("unlock %q: %w", itemID, ErrUnknownItem)
	}
	if s.Owns(itemID) {
		return fmt.Errorf("unlock %q: %w", itemID, ErrAlreadyOwned)
	}
	if s.Points < it.Cost {
		return fmt.Errorf("unlock %q (cost %d, have %d): %w", itemID, it.Cost, s.Points, ErrInsufficientPoints)
	}
	s.Points -= it.Cost
	s.Inventory = append(s.Inventory, itemID)
	return nil
}

// Equip puts an owned item into its slot.
func (s *State) Equip(itemID string) error {
	it, ok := ItemByID(itemID)
	if !ok {
		return fmt.Errorf("equip %q: %w", itemID, ErrUnknownItem)
	}
	if !s.Owns(itemID) {
		return fmt.Errorf("equip %q: %w", itemID, ErrNotOwned)
	}
	switch it.Kind {
	case KindAvatar:
		s.Equipped.Avatar = it.Value
	case KindAccessory:
		s.Equipped.Accessory = it.Value
	case KindTheme:
		s.Equipped.Theme = it.Value
	}
	return nil
}

// IsEquipped reports whether the item currently occupies its slot.
func (s *State) IsEquipped(it Item) bool {
	switch it.Kind {
	case KindAvatar:
		return s.Equipped.Avatar == it.Value
	case KindAccessory:
		return s.Equipped.Accessory == it.Value
	case KindTheme:
		return s.Equipped.Theme == it.Value
	}
	return false
}
