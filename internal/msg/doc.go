// Package msg defines the oracle's wire messages.
//
// Execute and query messages are externally tagged unions: exactly one field is
// set and it serializes under its snake_case variant name, e.g.
//
//	{"post_rates":{"denom":"factory/denom","purchase_rate":"0.9","redemption_rate":"1.1"}}
//	{"historical_purchase_rates":{"denom":"factory/denom","limit":10}}
//
// Params fields are a reserved extension slot. They are base64 in JSON and must
// be absent or empty.
package msg
