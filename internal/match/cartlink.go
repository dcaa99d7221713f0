package match

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/haggleworks/cartwheel/internal/model"
)

// StripePriceIDAttribute is the product attribute holding the Stripe price
// id used for checkout links.
const StripePriceIDAttribute = "stripe_price_id"

// CartLink formats a checkout link for a confirmed match. This is a pure
// string contract keyed by platform; no network calls are made.
//
//	shopify: <store>/cart/<variant_id>:<qty>
//	stripe:  https://checkout.stripe.com/pay/<price_id>?quantity=<qty>
//	generic: <store>/checkout?sku=<sku>&q=<qty>&product=<name>[&variant=<variant>]
func CartLink(storeURL string, m *model.ProductMatch, quantity int, platform model.Platform) (string, error) {
	if m == nil || m.Product == nil {
		return "", fmt.Errorf("no match to link")
	}
	if quantity <= 0 {
		quantity = 1
	}
	store := strings.TrimRight(storeURL, "/")

	switch platform {
	case model.PlatformShopify:
		variantID := m.Product.ID
		if m.Variant != nil && m.Variant.ID != "" {
			variantID = m.Variant.ID
		}
		if store == "" {
			return "", fmt.Errorf("shopify links require a store url")
		}
		return fmt.Sprintf("%s/cart/%s:%d", store, variantID, quantity), nil

	case model.PlatformStripe:
		priceID := m.Product.Attributes[StripePriceIDAttribute]
		if priceID == "" {
			return "", fmt.Errorf("product %s has no %s attribute", m.Product.ID, StripePriceIDAttribute)
		}
		return fmt.Sprintf("https://checkout.stripe.com/pay/%s?quantity=%d", priceID, quantity), nil

	case model.PlatformGeneric:
		if store == "" {
			return "", fmt.Errorf("generic links require a store url")
		}
		sku := m.Product.SKU
		if m.Variant != nil && m.Variant.SKU != "" {
			sku = m.Variant.SKU
		}
		values := url.Values{}
		values.Set("sku", sku)
		values.Set("q", fmt.Sprintf("%d", quantity))
		values.Set("product", m.Product.Name)
		if m.VariantLabel != "" {
			values.Set("variant", m.VariantLabel)
		}
		return store + "/checkout?" + values.Encode(), nil

	default:
		return "", fmt.Errorf("unsupported platform: %q", platform)
	}
}
