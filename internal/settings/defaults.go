package settings

import "github.com/smallbiznis/telesim/internal/settings/domain"

// Defaults returns the marketplace's registered setting definitions.
func Defaults() []domain.Definition {
	return []domain.Definition{
		{
			Key:         "general.store_name",
			Label:       "Store name",
			Description: "Display name shown across the storefront.",
			Group:       "general",
			Type:        domain.TypeString,
			Default:     "Telesim",
		},
		{
			Key:         "general.default_currency",
			Label:       "Default currency",
			Description: "ISO 4217 currency code used for retail prices.",
			Group:       "general",
			Type:        domain.TypeString,
			Default:     "USD",
		},
		{
			Key:     "general.supported_locales",
			Label:   "Supported locales",
			Group:   "general",
			Type:    domain.TypeArray,
			Default: []any{"en", "de", "fr"},
		},
		{
			Key:         "emails.order_confirmation",
			Label:       "Order confirmation emails",
			Description: "Send a confirmation email when an order completes.",
			Group:       "emails",
			Type:        domain.TypeBoolean,
			Default:     true,
		},
		{
			Key:     "emails.low_data_warning",
			Label:   "Low data warning emails",
			Group:   "emails",
			Type:    domain.TypeBoolean,
			Default: true,
		},
		{
			Key:         "emails.low_data_threshold_percent",
			Label:       "Low data warning threshold",
			Description: "Remaining data percentage that triggers the warning email.",
			Group:       "emails",
			Type:        domain.TypeInteger,
			Default:     20,
		},
		{
			Key:     "sync.batch_size",
			Label:   "Catalog sync batch size",
			Group:   "sync",
			Type:    domain.TypeInteger,
			Default: 100,
		},
		{
			Key:         "sync.price_markup_percent",
			Label:       "Retail price markup",
			Description: "Percentage added on top of provider cost price.",
			Group:       "sync",
			Type:        domain.TypeFloat,
			Default:     15.0,
		},
		{
			Key:     "payments.default_gateway",
			Label:   "Default payment gateway",
			Group:   "payments",
			Type:    domain.TypeString,
			Default: "sandbox",
		},
		{
			Key:     "payments.gateway_options",
			Label:   "Gateway options",
			Group:   "payments",
			Type:    domain.TypeJSON,
			Default: map[string]any{"capture": "automatic"},
		},
		{
			Key:      "system.schema_version",
			Label:    "Schema version",
			Group:    "system",
			Type:     domain.TypeInteger,
			Default:  1,
			ReadOnly: true,
		},
		{
			Key:       "system.provider_api_key",
			Label:     "Provider API key",
			Group:     "system",
			Type:      domain.TypeString,
			Default:   "",
			Encrypted: true,
		},
	}
}
