package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mudahpos/internal/catalog"
)

func product(id string, price int64) catalog.Product {
	return catalog.Product{
		ID:           id,
		Name:         "Product " + id,
		Availability: catalog.InStock(10),
		Price:        decimal.NewFromInt(price),
	}
}

func TestAdd_MergesSameProduct(t *testing.T) {
	c := New()
	p := product("2", 160000)

	require.NoError(t, c.Add(p, 1))
	require.NoError(t, c.Add(p, 1))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(160000)))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(320000)), c.Total().String())
}

func TestAdd_KeepsPriceSnapshot(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product("1", 100), 1))
	require.NoError(t, c.Add(product("1", 999), 2))

	items := c.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(300)))
}

func TestAdd_InsertionOrder(t *testing.T) {
	c := New()
	for _, id := range []string{"3", "1", "2", "1"} {
		require.NoError(t, c.Add(product(id, 10), 1))
	}

	var ids []string
	for _, item := range c.Items() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"3", "1", "2"}, ids)
	assert.Equal(t, 4, c.Units())
	assert.Equal(t, 3, c.Len())
}

func TestAdd_InvalidQuantity(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Add(product("1", 10), 0), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestSetQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product("1", 2500), 1))

	require.NoError(t, c.SetQuantity("1", 4))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(10000)))

	before := c.Items()
	assert.ErrorIs(t, c.SetQuantity("1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQuantity("1", -2), ErrInvalidQuantity)
	assert.Equal(t, before, c.Items())

	assert.ErrorIs(t, c.SetQuantity("404", 3), ErrUnknownItem)
	assert.Equal(t, before, c.Items())
}

func TestRemove_Idempotent(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product("1", 10), 1))
	require.NoError(t, c.Add(product("2", 20), 1))

	c.Remove("1")
	c.Remove("1")
	c.Remove("never")

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)
	assert.True(t, c.Total().Equal(decimal.NewFromInt(20)))
}

func TestQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product("2", 160000), 3))
	assert.Equal(t, 3, c.Quantity("2"))
	assert.Zero(t, c.Quantity("9"))
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product("1", 10), 3))
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
	assert.Zero(t, c.Units())
}

func TestTotal_ExactDecimals(t *testing.T) {
	c := New()
	p := catalog.Product{ID: "x", Price: decimal.RequireFromString("0.1")}
	require.NoError(t, c.Add(p, 3))
	assert.Equal(t, "0.3", c.Total().String())
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product("1", 10), 1))

	items := c.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

// The total always equals the sum of the lines, whatever the mutation sequence.
func TestTotal_MatchesLinesProperty(t *testing.T) {
	prices := map[string]decimal.Decimal{
		"1": decimal.RequireFromString("160000"),
		"2": decimal.RequireFromString("15000.50"),
		"3": decimal.RequireFromString("0.01"),
		"4": decimal.Zero,
	}
	ids := []string{"1", "2", "3", "4"}

	rapid.Check(t, func(t *rapid.T) {
		c := New()
		model := map[string]int{}

		steps := rapid.IntRange(0, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(ids).Draw(t, "id")
			qty := rapid.IntRange(-1, 5).Draw(t, "qty")

			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				err := c.Add(catalog.Product{ID: id, Price: prices[id]}, qty)
				if qty >= 1 {
					if err != nil {
						t.Fatalf("add: %v", err)
					}
					model[id] += qty
				}
			case 1:
				c.Remove(id)
				delete(model, id)
			case 2:
				err := c.SetQuantity(id, qty)
				if _, ok := model[id]; ok && qty >= 1 {
					if err != nil {
						t.Fatalf("set quantity: %v", err)
					}
					model[id] = qty
				}
			case 3:
				c.Clear()
				model = map[string]int{}
			}

			want := decimal.Zero
			for id, q := range model {
				want = want.Add(prices[id].Mul(decimal.NewFromInt(int64(q))))
			}
			if !c.Total().Equal(want) {
				t.Fatalf("total %s, want %s", c.Total(), want)
			}
			if c.Len() != len(model) {
				t.Fatalf("len %d, want %d", c.Len(), len(model))
			}
			for _, item := range c.Items() {
				if item.Quantity < 1 {
					t.Fatalf("line %s has quantity %d", item.ID, item.Quantity)
				}
			}
		}
	})
}
