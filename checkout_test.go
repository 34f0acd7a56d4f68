// checkout_test.go

package main

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() UserInfo {
	return UserInfo{
		Name:    "Ada Obi",
		Phone:   "08012345678",
		Address: "12 Marina Road",
		State:   "Lagos",
	}
}

func snapWith(state string, entries, qtyEach int) CheckoutSnapshot {
	items := make([]LineItem, entries)
	for i := range items {
		items[i] = LineItem{ID: "p", Color: "red", Price: 1000, Quantity: qtyEach}
	}
	return CheckoutSnapshot{
		OrderID: 123456,
		User:    UserInfo{Name: "Ada Obi", Address: "12 Marina Road", State: state},
		Items:   items,
	}
}

func TestBulkDiscountThreshold(t *testing.T) {
	// five units: no discount
	assert.InDelta(t, 0, BulkDiscount(5000, 5), 1e-9)
	// six units: single 15% tier activates
	assert.InDelta(t, 900, BulkDiscount(6000, 6), 1e-9)
	// no further tier above
	assert.InDelta(t, 0.15*20000, BulkDiscount(20000, 20), 1e-9)
}

func TestDeliveryFeeRegionTable(t *testing.T) {
	tests := []struct {
		state string
		want  float64
	}{
		{"lagos", 2500},
		{"oyo", 3000},
		{"ekiti", 3000},
		{"kano", 4000},
		{"abuja", 4000},
		{"nasarawa", 4000},
		{"rivers", 3500}, // unlisted state falls to the default tier
		{"", 3500},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			assert.InDelta(t, tt.want, DeliveryFee(snapWith(tt.state, 2, 1)), 1e-9)
		})
	}
}

func TestFreeDeliveryBeatsRegion(t *testing.T) {
	// 10 cart entries ship free even from lagos
	assert.InDelta(t, 0, DeliveryFee(snapWith("lagos", 10, 1)), 1e-9)
}

func TestFreeDeliveryCountsEntriesNotQuantities(t *testing.T) {
	// 9 entries at quantity 3 each is 27 units but only 9 entries:
	// still pays the region fee
	assert.InDelta(t, 2500, DeliveryFee(snapWith("lagos", 9, 3)), 1e-9)
}

func TestCaptureSnapshotMissingFields(t *testing.T) {
	ids := NewOrderIDSource(1)
	items := []LineItem{{ID: "x", Color: "red", Price: 100, Quantity: 1}}

	t.Run("single blank field", func(t *testing.T) {
		user := testUser()
		user.Phone = "   "
		_, err := CaptureSnapshot(items, user, ids)
		var incomplete *IncompleteFormError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, []string{"Phone Number"}, incomplete.Missing)
	})

	t.Run("all blank, form order preserved", func(t *testing.T) {
		_, err := CaptureSnapshot(items, UserInfo{}, ids)
		var incomplete *IncompleteFormError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, []string{"Name", "Phone Number", "Address", "State"}, incomplete.Missing)
	})
}

func TestCaptureSnapshotNormalizes(t *testing.T) {
	ids := NewOrderIDSource(42)
	items := []LineItem{{ID: "x", Color: "red", Price: 100, Quantity: 1}}
	user := UserInfo{Name: "  Ada Obi ", Phone: " 080 ", Address: " 12 Marina Road ", State: " LAGOS "}

	snap, err := CaptureSnapshot(items, user, ids)
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", snap.User.Name)
	assert.Equal(t, "lagos", snap.User.State)
	assert.GreaterOrEqual(t, snap.OrderID, 100000)
	assert.LessOrEqual(t, snap.OrderID, 999999)
}

func TestCaptureSnapshotSeededOrderID(t *testing.T) {
	items := []LineItem{{ID: "x", Color: "red", Price: 100, Quantity: 1}}

	a, err := CaptureSnapshot(items, testUser(), NewOrderIDSource(7))
	require.NoError(t, err)
	b, err := CaptureSnapshot(items, testUser(), NewOrderIDSource(7))
	require.NoError(t, err)
	assert.Equal(t, a.OrderID, b.OrderID, "same seed, same id")
}

func TestCaptureSnapshotConcurrentDraws(t *testing.T) {
	// one source shared by concurrent checkouts, as the HTTP adapter does
	ids := NewOrderIDSource(1)
	items := []LineItem{{ID: "x", Color: "red", Price: 100, Quantity: 1}}

	const n = 50
	results := make([]int, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := CaptureSnapshot(items, testUser(), ids)
			results[i], errs[i] = snap.OrderID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.GreaterOrEqual(t, results[i], 100000)
		assert.LessOrEqual(t, results[i], 999999)
	}
}

func TestCaptureSnapshotIsImmutableCopy(t *testing.T) {
	ids := NewOrderIDSource(1)
	items := []LineItem{{ID: "x", Color: "red", Price: 100, Quantity: 1}}

	snap, err := CaptureSnapshot(items, testUser(), ids)
	require.NoError(t, err)

	// later live-cart changes must not leak into the snapshot
	items[0].Quantity = 99
	assert.Equal(t, 1, snap.Items[0].Quantity)
}

func TestSummarizeBreakdown(t *testing.T) {
	t.Run("below discount threshold", func(t *testing.T) {
		snap := snapWith("lagos", 5, 1) // 5 × ₦1000
		s := Summarize(snap, "Divine Collections", "2348164473941")
		assert.InDelta(t, 5000, s.Subtotal, 1e-9)
		assert.InDelta(t, 0, s.Discount, 1e-9)
		assert.InDelta(t, 2500, s.DeliveryFee, 1e-9)
		assert.InDelta(t, 7500, s.Total, 1e-9)
	})

	t.Run("at discount threshold", func(t *testing.T) {
		snap := snapWith("lagos", 6, 1) // 6 × ₦1000
		s := Summarize(snap, "Divine Collections", "2348164473941")
		assert.InDelta(t, 6000, s.Subtotal, 1e-9)
		assert.InDelta(t, 900, s.Discount, 1e-9)
		assert.InDelta(t, 2500, s.DeliveryFee, 1e-9)
		assert.InDelta(t, 6000-900+2500, s.Total, 1e-9)
	})

	t.Run("free delivery large order", func(t *testing.T) {
		snap := snapWith("kano", 10, 1)
		s := Summarize(snap, "Divine Collections", "2348164473941")
		assert.InDelta(t, 0, s.DeliveryFee, 1e-9)
		assert.InDelta(t, 10000-1500, s.Total, 1e-9)
	})
}

func TestSnapshotPersistRoundTrip(t *testing.T) {
	kv := newTestKV(t)
	snap := snapWith("lagos", 2, 1)
	snap.Items[0].Size = strptr("M")

	require.NoError(t, saveSnapshot(kv, snap))
	loaded, ok, err := loadSnapshot(kv)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, loaded)
}

func TestLoadSnapshotAbsentAndCorrupt(t *testing.T) {
	kv := newTestKV(t)

	_, ok, err := loadSnapshot(kv)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Put(keyCheckoutData, "not json"))
	_, ok, err = loadSnapshot(kv)
	assert.Error(t, err)
	assert.False(t, ok)
}
