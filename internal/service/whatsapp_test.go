package service

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/lankashop/storefront/internal/cart"
	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/models"

	"github.com/shopspring/decimal"
)

func testComposer() *WhatsAppComposer {
	return NewWhatsAppComposer(config.WhatsAppConfig{Host: "wa.me", Destination: "94771234567"})
}

func TestDeepLinkFormat(t *testing.T) {
	composer := testComposer()
	link := composer.DeepLink("hello world & more")

	if !strings.HasPrefix(link, "https://wa.me/94771234567?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.Contains(link, "+") {
		t.Fatalf("spaces must be %%20 encoded, got %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	if got := parsed.Query().Get("text"); got != "hello world & more" {
		t.Fatalf("text round trip failed, got %q", got)
	}
}

func TestCartOrderMessageListsLinesAndTotal(t *testing.T) {
	composer := testComposer()
	user := &models.User{FullName: "Alice", Email: "alice@example.com"}
	lines := []cart.Line{
		{ProductID: 1, Name: "Headphones", Price: models.NewMoneyFromFloat(89.99), Quantity: 2},
		{ProductID: 2, Name: "Mouse", Price: models.NewMoneyFromFloat(65.50), Quantity: 1},
	}
	total := decimal.NewFromFloat(245.48)

	message := composer.CartOrderMessage(user, lines, total, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	for _, want := range []string{
		"1. Headphones - $89.99 x 2 = $179.98",
		"2. Mouse - $65.50 x 1 = $65.50",
		"*Total Amount: $245.48*",
		"Name: Alice",
		"Email: alice@example.com",
		"Please confirm my order and send payment details.",
	} {
		if !strings.Contains(message, want) {
			t.Fatalf("message missing %q:\n%s", want, message)
		}
	}
}

func TestCartOrderMessageFallsBackToEmail(t *testing.T) {
	composer := testComposer()
	user := &models.User{Email: "bob@example.com"}

	message := composer.CartOrderMessage(user, nil, decimal.Zero, time.Now())
	if !strings.Contains(message, "Name: bob@example.com") {
		t.Fatalf("expected email fallback for missing name:\n%s", message)
	}
}

func TestBuyNowMessageFormat(t *testing.T) {
	composer := testComposer()
	message := composer.BuyNowMessage("ORD-1700000000000-42", "Alice", "Headphones x2", decimal.NewFromFloat(179.98), "12 Galle Road")

	for _, want := range []string{
		"*NEW ORDER: ORD-1700000000000-42*",
		"*Customer:* Alice",
		"*Item:* Headphones x2",
		"*Total:* $179.98",
		"*Address:* 12 Galle Road",
		"_Status: Cash/Pending_",
	} {
		if !strings.Contains(message, want) {
			t.Fatalf("message missing %q:\n%s", want, message)
		}
	}
}
