package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownCosmetic is returned when a cosmetic id is not in the catalog.
var ErrUnknownCosmetic = errors.New("unknown cosmetic")

// ErrInsufficientBalance is returned when the time bank cannot cover a cost.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrLevelLocked is returned when the avatar's level is below an item's gate.
var ErrLevelLocked = errors.New("level requirement not met")

// ErrAlreadyOwned is returned on repurchase of an owned cosmetic.
var ErrAlreadyOwned = errors.New("cosmetic already owned")

// ErrNotOwned is returned when equipping a cosmetic the avatar does not own.
var ErrNotOwned = errors.New("cosmetic not owned")

// Catalog holds the read-only cosmetic shop and provides purchase and equip
// operations against Avatar snapshots.
type Catalog struct {
	items map[string]CosmeticItem // keyed by CosmeticItem.ID
	order []string                // display order
}

// NewCatalog creates the catalog pre-loaded with every shop item.
func NewCatalog() *Catalog {
	c := &Catalog{items: make(map[string]CosmeticItem)}
	for _, item := range buildShopItems() {
		c.items[item.ID] = item
		c.order = append(c.order, item.ID)
	}
	return c
}

// Items returns all catalog entries in display order.
func (c *Catalog) Items() []CosmeticItem {
	out := make([]CosmeticItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// ItemsForSlot returns the catalog entries occupying the given slot.
func (c *Catalog) ItemsForSlot(slot SlotType) []CosmeticItem {
	var out []CosmeticItem
	for _, id := range c.order {
		if c.items[id].Type == slot {
			out = append(out, c.items[id])
		}
	}
	return out
}

// Lookup returns the catalog entry with the given id.
func (c *Catalog) Lookup(id string) (CosmeticItem, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Purchase validates affordability, the level gate, and ownership, then
// returns the avatar with the item owned and the debited balance. On
// rejection the inputs are returned unchanged alongside the error.
func (c *Catalog) Purchase(avatar Avatar, balance int, cosmeticID string) (Avatar, int, error) {
	item, ok := c.items[cosmeticID]
	if !ok {
		return avatar, balance, fmt.Errorf("%w: %s", ErrUnknownCosmetic, cosmeticID)
	}
	if avatar.Owns(item.ID) {
		return avatar, balance, fmt.Errorf("%w: %s", ErrAlreadyOwned, item.ID)
	}
	if balance < item.Cost {
		return avatar, balance, fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, item.Cost, balance)
	}
	if avatar.Level < item.MinLevel {
		return avatar, balance, fmt.Errorf("%w: need level %d", ErrLevelLocked, item.MinLevel)
	}

	next := avatar.Clone()
	next.OwnedCosmetics = append(next.OwnedCosmetics, item.ID)
	return next, balance - item.Cost, nil
}

// Equip places cosmeticID into slot on a new avatar snapshot, verifying
// ownership. An empty cosmeticID clears the slot entirely, restoring the
// pre-equip slot state.
func (c *Catalog) Equip(avatar Avatar, slot SlotType, cosmeticID string) (Avatar, error) {
	next := avatar.Clone()
	if cosmeticID == "" {
		delete(next.EquippedCosmetics, slot)
		return next, nil
	}
	if _, ok := c.items[cosmeticID]; !ok {
		return avatar, fmt.Errorf("%w: %s", ErrUnknownCosmetic, cosmeticID)
	}
	if !avatar.Owns(cosmeticID) {
		return avatar, fmt.Errorf("%w: %s", ErrNotOwned, cosmeticID)
	}
	next.EquippedCosmetics[slot] = cosmeticID
	return next, nil
}

// buildShopItems returns the authoritative cosmetic shop contents.
func buildShopItems() []CosmeticItem {
	return []CosmeticItem{
		{ID: "c1", Name: "Neon Halo", Description: "A glowing ring of pure energy.", Cost: 150, MinLevel: 3, Icon: "Circle", Type: SlotHat},
		{ID: "c2", Name: "Cyber Visor", Description: "Enhanced optical interface.", Cost: 300, MinLevel: 5, Icon: "Glasses", Type: SlotHat},
		{ID: "c3", Name: "Matrix Aura", Description: "Digital rain surrounds you.", Cost: 500, MinLevel: 8, Icon: "Code", Type: SlotAura},
		{ID: "c4", Name: "Golden Wings", Description: "Symbol of ultimate freedom.", Cost: 1000, MinLevel: 10, Icon: "Feather", Type: SlotCape},
		{ID: "c5", Name: "Zen Garden", Description: "Peaceful background theme.", Cost: 200, MinLevel: 2, Icon: "Flower", Type: SlotBackground},
		{ID: "c6", Name: "Neural Robes", Description: "Standard issue for high-level operatives.", Cost: 400, MinLevel: 4, Icon: "Shirt", Type: SlotClothes},
		{ID: "c7", Name: "Void Cape", Description: "Absorbs digital noise.", Cost: 600, MinLevel: 6, Icon: "Moon", Type: SlotCape},
		{ID: "c8", Name: "Cosmic Void", Description: "Stare into the abyss.", Cost: 800, MinLevel: 12, Icon: "Stars", Type: SlotBackground},
		{ID: "c9", Name: "Glitch Effect", Description: "Unstable reality field.", Cost: 450, MinLevel: 7, Icon: "Zap", Type: SlotAura},
		{ID: "c10", Name: "Samurai Helm", Description: "Ancient warrior plating.", Cost: 550, MinLevel: 9, Icon: "Shield", Type: SlotHat},
		{ID: "c11", Name: "Solar Robes", Description: "Woven from starlight.", Cost: 600, MinLevel: 6, Icon: "Sun", Type: SlotClothes},
		{ID: "c12", Name: "Void Robes", Description: "Darkness incarnate.", Cost: 700, MinLevel: 8, Icon: "Moon", Type: SlotClothes},
		{ID: "c13", Name: "Cyber Tunic", Description: "High-tech fabric.", Cost: 350, MinLevel: 3, Icon: "Cpu", Type: SlotClothes},
	}
}
