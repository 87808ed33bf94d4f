package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/turtle-hero/internal/types"
)

func testItem(id string, maxStack int) *types.Item {
	return &types.Item{ID: id, Name: id, Type: types.ItemTypeConsumable, HealthRestore: 5, MaxStack: maxStack}
}

func TestAddItemRejectsInvalidInput(t *testing.T) {
	inv := NewInventory()

	assert.False(t, inv.AddItem(nil, 1))
	assert.False(t, inv.AddItem(testItem("a", 5), 0))
	assert.False(t, inv.AddItem(testItem("a", 5), -2))
	assert.False(t, inv.AddItem(&types.Item{MaxStack: 5}, 1))
	assert.Zero(t, inv.UsedSlots())
}

func TestAddItemStacksInPlace(t *testing.T) {
	inv := NewInventory()
	mushroom := testItem("mushroom", 99)

	require.True(t, inv.AddItem(mushroom, 3))
	require.True(t, inv.AddItem(mushroom, 2))

	assert.Equal(t, 1, inv.UsedSlots())
	assert.Equal(t, 5, inv.GetItemCount("mushroom"))
	assert.Equal(t, 5, inv.GetItemStack("mushroom").Quantity)
}

func TestAddItemOverflowsIntoNewStack(t *testing.T) {
	inv := NewInventory()
	herb := testItem("herb", 5)

	require.True(t, inv.AddItem(herb, 5))
	require.True(t, inv.AddItem(herb, 3))

	assert.Equal(t, 2, inv.UsedSlots())
	assert.Equal(t, 8, inv.GetItemCount("herb"))
	assert.Equal(t, 5, inv.GetItemStack("herb").Quantity)
	require.NotNil(t, inv.GetItemStack("herb#2"))
	assert.Equal(t, 3, inv.GetItemStack("herb#2").Quantity)

	// The overflow stack fills up before a third one is made
	require.True(t, inv.AddItem(herb, 2))
	assert.Equal(t, 2, inv.UsedSlots())
	assert.Equal(t, 5, inv.GetItemStack("herb#2").Quantity)
}

func TestAddItemNewStackLimitedByMaxStack(t *testing.T) {
	inv := NewInventory()

	assert.False(t, inv.AddItem(testItem("herb", 5), 6))
	assert.Zero(t, inv.UsedSlots())
}

func TestInventorySlotLimit(t *testing.T) {
	inv := NewInventory()
	for i := 0; i < MaxSlots; i++ {
		require.True(t, inv.AddItem(testItem(fmt.Sprintf("item%d", i), 10), 1))
	}
	before := inv.Entries()

	assert.False(t, inv.AddItem(testItem("one_too_many", 10), 1))
	assert.Equal(t, MaxSlots, inv.UsedSlots())
	assert.Equal(t, before, inv.Entries())
	assert.Zero(t, inv.GetItemCount("one_too_many"))

	// Existing stacks can still grow
	assert.True(t, inv.AddItem(testItem("item0", 10), 4))
	assert.Equal(t, 5, inv.GetItemCount("item0"))
}

func TestInventoryFullBlocksOverflowStack(t *testing.T) {
	inv := NewInventory()
	for i := 0; i < MaxSlots-1; i++ {
		require.True(t, inv.AddItem(testItem(fmt.Sprintf("item%d", i), 10), 1))
	}
	herb := testItem("herb", 2)
	require.True(t, inv.AddItem(herb, 2))

	assert.False(t, inv.AddItem(herb, 1))
	assert.Equal(t, 2, inv.GetItemCount("herb"))
}

func TestRemoveItem(t *testing.T) {
	inv := NewInventory()
	mushroom := testItem("mushroom", 99)
	require.True(t, inv.AddItem(mushroom, 3))

	assert.False(t, inv.RemoveItem("mushroom", 0))
	assert.False(t, inv.RemoveItem("mushroom", -1))
	assert.False(t, inv.RemoveItem("missing", 1))
	assert.False(t, inv.RemoveItem("mushroom", 4))
	assert.Equal(t, 3, inv.GetItemCount("mushroom"))

	assert.True(t, inv.RemoveItem("mushroom", 1))
	assert.Equal(t, 2, inv.GetItemCount("mushroom"))

	assert.True(t, inv.RemoveItem("mushroom", 2))
	assert.Nil(t, inv.GetItemStack("mushroom"))
	assert.Zero(t, inv.UsedSlots())
}

func TestRemoveItemDrainsNewestStackFirst(t *testing.T) {
	inv := NewInventory()
	herb := testItem("herb", 5)
	require.True(t, inv.AddItem(herb, 5))
	require.True(t, inv.AddItem(herb, 3))

	assert.True(t, inv.RemoveItem("herb", 4))
	assert.Nil(t, inv.GetItemStack("herb#2"))
	assert.Equal(t, 4, inv.GetItemStack("herb").Quantity)
	assert.Equal(t, 4, inv.GetItemCount("herb"))
}

func TestRemoveItemByOverflowKey(t *testing.T) {
	inv := NewInventory()
	herb := testItem("herb", 5)
	require.True(t, inv.AddItem(herb, 5))
	require.True(t, inv.AddItem(herb, 3))

	assert.True(t, inv.RemoveItem("herb#2", 2))
	assert.Equal(t, 1, inv.GetItemStack("herb#2").Quantity)
	assert.Equal(t, 5, inv.GetItemStack("herb").Quantity)

	assert.False(t, inv.RemoveItem("herb#2", 2))
}

func TestHasItemAndFindItem(t *testing.T) {
	inv := NewInventory()
	herb := testItem("herb", 5)
	require.True(t, inv.AddItem(herb, 5))
	require.True(t, inv.AddItem(herb, 1))

	assert.True(t, inv.HasItem("herb", 6))
	assert.False(t, inv.HasItem("herb", 7))
	assert.False(t, inv.HasItem("nothing", 1))
	assert.Same(t, herb, inv.FindItem("herb"))
	assert.Nil(t, inv.FindItem("nothing"))
}

func TestClearAndEntries(t *testing.T) {
	inv := NewInventory()
	require.True(t, inv.AddItem(testItem("b", 5), 1))
	require.True(t, inv.AddItem(testItem("a", 5), 2))

	entries := inv.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.Equal(t, "b", entries[1].Key)

	inv.Clear()
	assert.Zero(t, inv.UsedSlots())
	assert.Empty(t, inv.Entries())
}

func TestNormalize(t *testing.T) {
	inv := &Inventory{Items: map[string]*ItemStack{
		"empty":   {Item: testItem("empty", 5), Quantity: 0},
		"nil":     nil,
		"noitem":  {Quantity: 3},
		"toomany": {Item: testItem("toomany", 5), Quantity: 9},
		"ok":      {Item: testItem("ok", 5), Quantity: 2},
	}}

	inv.Normalize()
	assert.Equal(t, 2, inv.UsedSlots())
	assert.Equal(t, 5, inv.GetItemCount("toomany"))
	assert.Equal(t, 2, inv.GetItemCount("ok"))

	var zero Inventory
	assert.Empty(t, zero.Normalize())
	assert.NotNil(t, zero.Items)
}

func TestNormalizeTrimsToMaxSlots(t *testing.T) {
	inv := &Inventory{Items: map[string]*ItemStack{}}
	for i := 0; i < MaxSlots+3; i++ {
		id := fmt.Sprintf("item%02d", i)
		inv.Items[id] = &ItemStack{Item: testItem(id, 10), Quantity: 1}
	}

	dropped := inv.Normalize()
	assert.Equal(t, MaxSlots, inv.UsedSlots())
	assert.Equal(t, []string{"item12", "item13", "item14"}, dropped)
	assert.NotNil(t, inv.GetItemStack("item00"))
	assert.NotNil(t, inv.GetItemStack("item11"))
	assert.Nil(t, inv.GetItemStack("item12"))

	// Already within bounds
	assert.Nil(t, inv.Normalize())
}
