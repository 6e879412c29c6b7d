// Package plan turns a feature request into a three-phase loading plan.
//
// A plan partitions the catalog into critical, important, and optional
// phases by descriptor priority, including a descriptor when it is required
// or when its feature tags overlap the request. Identical registry contents
// and feature sets always produce identical plans; ties follow registry
// insertion order.
package plan
