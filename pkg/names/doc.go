// Package names decomposes and composes layered fabric and domain names.
//
// A layered provider presents the base provider's resources under its own
// prefix:
//
//	fabric: <prefix>_<base_provider_name>_<base_fabric_name>   e.g. rxm_verbs_IB-1234
//	domain: <prefix>_<base_domain_name>                        e.g. rxm_mlx5_0
//
// The final segment may itself contain the delimiter. Parse reattaches such
// overflow to the last token so "rxm_mlx5_0" decomposes into ("rxm", "mlx5_0").
//
// Parsed tokens are views into a single backing buffer obtained from an
// Allocator. Tokens.Release returns that buffer; there is nothing to release
// per token.
package names
