package charges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsSequentialIDs(t *testing.T) {
	var list List
	list, first := list.Add("HOA", 250)
	list, second := list.Add("", 40)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, DefaultName, second.Name)
	require.Len(t, list, 2)
	assert.InDelta(t, 290.0, list.Total(), 1e-9)
}

func TestAddDoesNotModifyReceiver(t *testing.T) {
	original := List{{ID: 1, Name: "HOA", Amount: 250}}
	updated, _ := original.Add("PMI", 90)

	assert.Len(t, original, 1)
	assert.Len(t, updated, 2)
}

func TestRemoveKeepsOtherIDsStable(t *testing.T) {
	list := List{
		{ID: 1, Name: "HOA", Amount: 250},
		{ID: 2, Name: "PMI", Amount: 90},
		{ID: 3, Name: "Flood", Amount: 35},
	}

	out, err := list.Remove(2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, 3, out[1].ID)
	assert.Len(t, list, 3)

	out, added := out.Add("Lawn", 60)
	assert.Equal(t, 4, added.ID)
	assert.Equal(t, []int{1, 3, 4}, ids(out))
}

func TestRemoveMissing(t *testing.T) {
	_, err := List{{ID: 1, Name: "HOA"}}.Remove(9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	list := List{{ID: 1, Name: "HOA", Amount: 250}}

	out, err := list.Update(1, "HOA dues", 275)
	require.NoError(t, err)
	assert.Equal(t, "HOA dues", out[0].Name)
	assert.InDelta(t, 275.0, out[0].Amount, 1e-9)
	assert.Equal(t, "HOA", list[0].Name)

	_, err = list.Update(2, "x", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet(t *testing.T) {
	list := List{{ID: 4, Name: "HOA", Amount: 250}}

	c, ok := list.Get(4)
	require.True(t, ok)
	assert.Equal(t, "HOA", c.Name)

	_, ok = list.Get(1)
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	list := List{
		{Name: "a", Amount: 1},
		{ID: 5, Name: "b", Amount: 2},
		{ID: 5, Name: "c", Amount: 3},
		{ID: -1, Name: "d", Amount: 4},
	}

	out := list.Normalize()
	assert.Equal(t, []int{6, 5, 7, 8}, ids(out))
	assert.Equal(t, 0, list[0].ID)
	assert.InDelta(t, 10.0, out.Total(), 1e-9)
}

func TestTotalEmpty(t *testing.T) {
	var list List
	assert.Zero(t, list.Total())
	assert.Nil(t, list.Normalize())
}

func ids(l List) []int {
	out := make([]int, 0, len(l))
	for _, c := range l {
		out = append(out, c.ID)
	}
	return out
}
