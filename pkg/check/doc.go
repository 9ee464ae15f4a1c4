// Package check validates a requested fabric.Info against the attributes a
// provider declares.
//
// The checker walks the top-level record and then the fabric, domain,
// endpoint, receive and transmit groups in that order, and stops at the first
// incompatible field. Each comparison uses the rule that fits the field:
//
//	capabilities, op flags, orderings   requested must be a subset of offered
//	mode                                requested must be a superset of required
//	threading, progress, resource mgmt  rank(requested) >= rank(offered)
//	address format                      explicit compatibility table
//	names                               case-insensitive match (prefix in layered mode)
//	sizes and limits                    requested must not exceed offered
//
// Every failure is reported to the configured log.Logger before a
// *fabric.MismatchError is returned.
package check
