// whatsapp.go

package main

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var nairaPrinter = message.NewPrinter(language.English)

// FormatNaira renders an amount with thousands separators, dropping the
// fraction when the amount is whole and any trailing zero otherwise:
// 5100 -> "5,100", 1234.5 -> "1,234.5", 1234.55 -> "1,234.55".
func FormatNaira(amount float64) string {
	if amount == float64(int64(amount)) {
		return nairaPrinter.Sprintf("%d", int64(amount))
	}
	return strings.TrimRight(nairaPrinter.Sprintf("%.2f", amount), "0")
}

// OrderMessage builds the fixed-template order text handed to the store's
// WhatsApp contact.
func OrderMessage(storeName string, snap CheckoutSnapshot, total float64) string {
	return fmt.Sprintf(
		"Hi, %s, my order ID is *%d*.\nMy name is *%s*.\nMy address is *%s, %s*.\nMy total is ₦%s (including delivery).",
		storeName, snap.OrderID, snap.User.Name, snap.User.Address, snap.User.State,
		FormatNaira(total),
	)
}

// WhatsAppLink builds the wa.me deep link for the message. Spaces must be
// percent-encoded, not "+", or the chat opens with literal plus signs.
func WhatsAppLink(phone, msg string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, encoded)
}
