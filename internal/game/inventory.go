package game

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/user/turtle-hero/internal/types"
)

// MaxSlots is the number of distinct stacks an inventory can hold
const MaxSlots = 12

// overflowSep separates an item id from the stack number in extra stack keys
const overflowSep = "#"

// ItemStack is a quantity of one item occupying a slot
type ItemStack struct {
	Item     *types.Item `json:"item"`
	Quantity int         `json:"quantity"`
}

// CanAdd reports whether amount more fits into the stack
func (s *ItemStack) CanAdd(amount int) bool {
	return s.Item != nil && s.Quantity+amount <= maxStack(s.Item)
}

// Inventory is a bounded set of item stacks keyed by item id. When a stack
// is full a further stack of the same item is keyed "<id>#<n>".
type Inventory struct {
	Items map[string]*ItemStack `json:"items"`
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{Items: make(map[string]*ItemStack)}
}

// UsedSlots is the number of occupied slots
func (inv *Inventory) UsedSlots() int {
	return len(inv.Items)
}

// HasFreeSlots reports whether another stack fits
func (inv *Inventory) HasFreeSlots() bool {
	return inv.UsedSlots() < MaxSlots
}

// AddItem adds quantity of item, either into an existing stack with room or
// into a new slot. Nothing is added on failure.
func (inv *Inventory) AddItem(item *types.Item, quantity int) bool {
	if item == nil || item.ID == "" || quantity <= 0 {
		return false
	}
	inv.ensure()

	keys := inv.stackKeys(item.ID)
	for _, key := range keys {
		if stack := inv.Items[key]; stack.CanAdd(quantity) {
			stack.Quantity += quantity
			return true
		}
	}

	if !inv.HasFreeSlots() || quantity > maxStack(item) {
		return false
	}
	inv.Items[inv.newStackKey(item.ID)] = &ItemStack{Item: item, Quantity: quantity}
	return true
}

// RemoveItem takes quantity of an item out of the inventory. id may be an
// item id (all its stacks count, newest drained first) or a stack key.
func (inv *Inventory) RemoveItem(id string, quantity int) bool {
	if id == "" || quantity <= 0 {
		return false
	}
	inv.ensure()

	keys := inv.stackKeys(id)
	if len(keys) == 0 {
		// Direct reference to an overflow stack
		if _, ok := inv.Items[id]; !ok {
			return false
		}
		keys = []string{id}
	}

	total := 0
	for _, key := range keys {
		total += inv.Items[key].Quantity
	}
	if total < quantity {
		return false
	}

	remaining := quantity
	for i := len(keys) - 1; i >= 0 && remaining > 0; i-- {
		stack := inv.Items[keys[i]]
		taken := min(stack.Quantity, remaining)
		stack.Quantity -= taken
		remaining -= taken
		if stack.Quantity <= 0 {
			delete(inv.Items, keys[i])
		}
	}
	return true
}

// GetItemCount returns the total quantity of an item across its stacks
func (inv *Inventory) GetItemCount(itemID string) int {
	count := 0
	for _, key := range inv.stackKeys(itemID) {
		count += inv.Items[key].Quantity
	}
	return count
}

// HasItem reports whether at least quantity of the item is held
func (inv *Inventory) HasItem(itemID string, quantity int) bool {
	return inv.GetItemCount(itemID) >= quantity
}

// GetItemStack returns the stack stored under key, or nil
func (inv *Inventory) GetItemStack(key string) *ItemStack {
	return inv.Items[key]
}

// FindItem returns the catalog item held under an item id, or nil
func (inv *Inventory) FindItem(itemID string) *types.Item {
	keys := inv.stackKeys(itemID)
	if len(keys) == 0 {
		return nil
	}
	return inv.Items[keys[0]].Item
}

// Clear empties the inventory
func (inv *Inventory) Clear() {
	inv.Items = make(map[string]*ItemStack)
}

// Entries lists stacks ordered by key for display
func (inv *Inventory) Entries() []types.InventoryEntry {
	entries := make([]types.InventoryEntry, 0, len(inv.Items))
	for _, key := range slices.Sorted(maps.Keys(inv.Items)) {
		stack := inv.Items[key]
		if stack.Item == nil {
			continue
		}
		entries = append(entries, types.InventoryEntry{
			Key:      key,
			ItemID:   stack.Item.ID,
			Name:     stack.Item.Name,
			Emoji:    stack.Item.Emoji,
			Quantity: stack.Quantity,
		})
	}
	return entries
}

// Normalize drops empty or itemless stacks and caps quantities at the
// item's max stack. Stacks beyond MaxSlots are dropped in key order and
// their keys returned. Used after decoding a save.
func (inv *Inventory) Normalize() (dropped []string) {
	inv.ensure()
	for key, stack := range inv.Items {
		if stack == nil || stack.Item == nil || stack.Quantity <= 0 {
			delete(inv.Items, key)
			continue
		}
		stack.Quantity = min(stack.Quantity, maxStack(stack.Item))
	}

	if len(inv.Items) <= MaxSlots {
		return nil
	}
	keys := slices.Sorted(maps.Keys(inv.Items))
	for _, key := range keys[MaxSlots:] {
		delete(inv.Items, key)
		dropped = append(dropped, key)
	}
	return dropped
}

// stackKeys returns the keys of every stack holding itemID, the primary
// stack first and overflow stacks in creation order.
func (inv *Inventory) stackKeys(itemID string) []string {
	var keys []string
	for key, stack := range inv.Items {
		if stack != nil && stack.Item != nil && stack.Item.ID == itemID {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		return stackNumber(a) - stackNumber(b)
	})
	return keys
}

func (inv *Inventory) newStackKey(itemID string) string {
	if _, taken := inv.Items[itemID]; !taken {
		return itemID
	}
	for n := 2; ; n++ {
		key := fmt.Sprintf("%s%s%d", itemID, overflowSep, n)
		if _, taken := inv.Items[key]; !taken {
			return key
		}
	}
}

func (inv *Inventory) ensure() {
	if inv.Items == nil {
		inv.Items = make(map[string]*ItemStack)
	}
}

// stackNumber is 1 for a primary key and n for "<id>#<n>"
func stackNumber(key string) int {
	i := strings.LastIndex(key, overflowSep)
	if i < 0 {
		return 1
	}
	n, err := strconv.Atoi(key[i+len(overflowSep):])
	if err != nil {
		return 1
	}
	return n
}

func maxStack(item *types.Item) int {
	return max(1, item.MaxStack)
}
