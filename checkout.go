// checkout.go

package main

import (
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
)

const (
	bulkDiscountMinQty = 6
	bulkDiscountRate   = 0.15

	// Free delivery counts cart entries, not summed quantities.
	freeDeliveryMinEntries = 10

	feeLagos     = 2500
	feeSouthwest = 3000
	feeNorth     = 4000
	feeDefault   = 3500
)

var southwestStates = map[string]bool{
	"ondo": true, "osun": true, "ogun": true,
	"oyo": true, "ekiti": true, "kwara": true,
}

var northStates = map[string]bool{
	"abuja": true, "borno": true, "niger": true, "plateau": true,
	"kaduna": true, "kano": true, "jigawa": true, "katsina": true,
	"kebbi": true, "sokoto": true, "zamfara": true, "adamawa": true,
	"bauchi": true, "gombe": true, "taraba": true, "yobe": true,
	"benue": true, "nasarawa": true,
}

// OrderIDSource hands out pseudo-random 6-digit order ids. math/rand's
// Rand is not safe for concurrent use, so draws are serialized; the seed
// is injectable for deterministic tests.
type OrderIDSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewOrderIDSource(seed int64) *OrderIDSource {
	return &OrderIDSource{rng: rand.New(rand.NewSource(seed))}
}

// Next returns an id in [100000, 999999].
func (s *OrderIDSource) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 100000 + s.rng.Intn(900000)
}

// IncompleteFormError lists the checkout fields left blank, by display
// name, in form order. The names are shown to the customer verbatim.
type IncompleteFormError struct {
	Missing []string
}

func (e *IncompleteFormError) Error() string {
	return "please complete the following fields before checkout: " + strings.Join(e.Missing, ", ")
}

// CaptureSnapshot freezes the cart and customer info into a checkout
// snapshot. All four fields must be non-blank after trimming; the state is
// lowercased for the region lookup.
func CaptureSnapshot(items []LineItem, user UserInfo, ids *OrderIDSource) (CheckoutSnapshot, error) {
	var missing []string
	if strings.TrimSpace(user.Name) == "" {
		missing = append(missing, "Name")
	}
	if strings.TrimSpace(user.Phone) == "" {
		missing = append(missing, "Phone Number")
	}
	if strings.TrimSpace(user.Address) == "" {
		missing = append(missing, "Address")
	}
	if strings.TrimSpace(user.State) == "" {
		missing = append(missing, "State")
	}
	if len(missing) > 0 {
		return CheckoutSnapshot{}, &IncompleteFormError{Missing: missing}
	}

	return CheckoutSnapshot{
		OrderID: ids.Next(),
		User: UserInfo{
			Name:    strings.TrimSpace(user.Name),
			Phone:   strings.TrimSpace(user.Phone),
			Address: strings.TrimSpace(user.Address),
			State:   strings.ToLower(strings.TrimSpace(user.State)),
		},
		Items: append([]LineItem{}, items...),
	}, nil
}

// BulkDiscount returns the discount amount: one hard tier, 15% off once
// the summed quantity reaches 6.
func BulkDiscount(subtotal float64, totalQty int) float64 {
	if totalQty >= bulkDiscountMinQty {
		return subtotal * bulkDiscountRate
	}
	return 0
}

// DeliveryFee applies the region table. The free-delivery check runs
// first: a large order ships free no matter the state.
func DeliveryFee(snap CheckoutSnapshot) float64 {
	if len(snap.Items) >= freeDeliveryMinEntries {
		return 0
	}
	state := snap.User.State
	switch {
	case state == "lagos":
		return feeLagos
	case southwestStates[state]:
		return feeSouthwest
	case northStates[state]:
		return feeNorth
	}
	return feeDefault
}

// Summarize computes the itemized order total and the WhatsApp hand-off
// for a snapshot. Pure; recomputed on every call rather than cached.
func Summarize(snap CheckoutSnapshot, storeName, waPhone string) OrderSummary {
	subtotal := 0.0
	totalQty := 0
	for _, it := range snap.Items {
		subtotal += it.Price * float64(it.Quantity)
		totalQty += it.Quantity
	}
	discount := BulkDiscount(subtotal, totalQty)
	fee := DeliveryFee(snap)
	total := subtotal - discount + fee

	msg := OrderMessage(storeName, snap, total)
	return OrderSummary{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: fee,
		Total:       total,
		Message:     msg,
		WhatsAppURL: WhatsAppLink(waPhone, msg),
	}
}

func saveSnapshot(kv *KVStore, snap CheckoutSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return kv.Put(keyCheckoutData, string(raw))
}

// loadSnapshot reads the persisted snapshot. Absent key returns ok=false;
// a corrupt value returns an error for the caller to log and treat as
// absent.
func loadSnapshot(kv *KVStore) (CheckoutSnapshot, bool, error) {
	raw, ok, err := kv.Get(keyCheckoutData)
	if err != nil || !ok {
		return CheckoutSnapshot{}, false, err
	}
	var snap CheckoutSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return CheckoutSnapshot{}, false, err
	}
	return snap, true, nil
}
