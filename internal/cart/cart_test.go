package cart

import (
	"testing"

	"github.com/google/uuid"
)

func TestAddIncrementsExistingLine(t *testing.T) {
	t.Parallel()

	c := NewCart(uuid.New())
	productID := uuid.New()

	c.add(Item{ProductID: productID, Name: "React Starter Kit", UnitPriceCents: 2999})
	c.add(Item{ProductID: productID, Name: "React Starter Kit", UnitPriceCents: 2999})

	if len(c.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", c.Items[0].Quantity)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	c := NewCart(uuid.New())
	first := uuid.New()
	second := uuid.New()

	c.add(Item{ProductID: first, UnitPriceCents: 1000})
	c.add(Item{ProductID: second, UnitPriceCents: 2000})
	c.add(Item{ProductID: first, UnitPriceCents: 1000})

	if c.Items[0].ProductID != first || c.Items[1].ProductID != second {
		t.Fatal("expected items to keep insertion order")
	}
}

func TestRemoveMissingProductIsNoOp(t *testing.T) {
	t.Parallel()

	c := NewCart(uuid.New())
	c.add(Item{ProductID: uuid.New(), UnitPriceCents: 500})

	c.remove(uuid.New())

	if len(c.Items) != 1 {
		t.Fatalf("expected line to survive, got %d items", len(c.Items))
	}
}

func TestSetQuantityClampsToOne(t *testing.T) {
	t.Parallel()

	c := NewCart(uuid.New())
	productID := uuid.New()
	c.add(Item{ProductID: productID, UnitPriceCents: 500})

	if !c.setQuantity(productID, 0) {
		t.Fatal("expected product to be found")
	}
	if c.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", c.Items[0].Quantity)
	}

	if !c.setQuantity(productID, -3) {
		t.Fatal("expected product to be found")
	}
	if c.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", c.Items[0].Quantity)
	}

	if c.setQuantity(uuid.New(), 5) {
		t.Fatal("expected missing product to report false")
	}
}

func TestSubtotalAndCount(t *testing.T) {
	t.Parallel()

	c := NewCart(uuid.New())
	a := uuid.New()
	b := uuid.New()

	c.add(Item{ProductID: a, UnitPriceCents: 2999})
	c.add(Item{ProductID: b, UnitPriceCents: 4999})
	c.setQuantity(b, 3)

	if got := c.Subtotal(); got != 2999+3*4999 {
		t.Fatalf("unexpected subtotal %d", got)
	}
	if got := c.Count(); got != 4 {
		t.Fatalf("unexpected count %d", got)
	}
	if c.IsEmpty() {
		t.Fatal("cart should not be empty")
	}
}
