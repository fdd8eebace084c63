package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lankashop/storefront/internal/cart"
	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/models"

	"github.com/shopspring/decimal"
)

// WhatsAppComposer 组装下单消息与 WhatsApp 深链
type WhatsAppComposer struct {
	host        string
	destination string
}

// NewWhatsAppComposer 创建消息组装器
func NewWhatsAppComposer(cfg config.WhatsAppConfig) *WhatsAppComposer {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "wa.me"
	}
	return &WhatsAppComposer{
		host:        host,
		destination: strings.TrimSpace(cfg.Destination),
	}
}

// Destination 商家收单号码
func (c *WhatsAppComposer) Destination() string {
	return c.destination
}

// CartOrderMessage 购物车下单消息，逐行列出商品与小计。
func (c *WhatsAppComposer) CartOrderMessage(user *models.User, lines []cart.Line, total decimal.Decimal, now time.Time) string {
	var b strings.Builder
	b.WriteString("Hello LankaShop Elite,\n\nI would like to place an order:\n\n")
	for i, line := range lines {
		b.WriteString(fmt.Sprintf("%d. %s - $%s x %d = $%s\n",
			i+1, line.Name, line.Price.StringFixed(2), line.Quantity, line.Subtotal().StringFixed(2)))
	}
	b.WriteString(fmt.Sprintf("\n*Total Amount: $%s*\n", total.StringFixed(2)))

	b.WriteString("\n*Customer Details:*\n")
	name := strings.TrimSpace(user.FullName)
	if name == "" {
		name = user.Email
	}
	b.WriteString(fmt.Sprintf("Name: %s\n", name))
	b.WriteString(fmt.Sprintf("Email: %s\n", user.Email))
	b.WriteString(fmt.Sprintf("Date: %s\n", now.Format("2006-01-02 15:04:05")))

	b.WriteString("\nPlease confirm my order and send payment details.")
	return b.String()
}

// BuyNowMessage 单品直购消息
func (c *WhatsAppComposer) BuyNowMessage(orderNumber, customerName, productName string, total decimal.Decimal, address string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("*NEW ORDER: %s*\n\n", orderNumber))
	b.WriteString(fmt.Sprintf("👤 *Customer:* %s\n", customerName))
	b.WriteString(fmt.Sprintf("📦 *Item:* %s\n", productName))
	b.WriteString(fmt.Sprintf("💰 *Total:* $%s\n", total.StringFixed(2)))
	b.WriteString(fmt.Sprintf("📍 *Address:* %s\n\n", address))
	b.WriteString("_Status: Cash/Pending_ - Please confirm availability.")
	return b.String()
}

// DeepLink 生成 https://<host>/<number>?text=<消息> 深链
func (c *WhatsAppComposer) DeepLink(message string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     c.host,
		Path:     "/" + c.destination,
		RawQuery: "text=" + encodeURIComponent(message),
	}
	return u.String()
}

// encodeURIComponent 空格编码为 %20 而非 +，与主流客户端解析一致
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
