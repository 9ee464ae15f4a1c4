// Package layer implements negotiation for a provider layered over a base
// provider.
//
// A Layer accepts hints written in its own namespace, checks them against
// the attributes it declares, rewrites them into the base provider's
// namespace, delegates, and rewrites the base result back:
//
//	hints ─▶ check (layered) ─▶ LayerToBase ─▶ base.GetInfo ─▶ BaseToLayer ─▶ alter ─▶ caller
//
// Ownership follows the base provider's GetInfo/FreeInfo pair. Translated
// hints are released exactly once on every path. The base result is freed
// internally unless Request.ReturnBase hands it to the caller, who must then
// release it with the base provider's FreeInfo.
//
// A Layer is itself a Provider, so layers can be stacked.
package layer
