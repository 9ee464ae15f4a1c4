package check

import "github.com/layerfab/layerfab-go/pkg/fabric"

// rankUnknown marks a value missing from a rank table. It fails every
// comparison.
const rankUnknown = -1

// Ranks order a model from most specific (1) to most permissive. The
// unspecified variant always has the highest rank.

var threadingRank = map[fabric.Threading]int{
	fabric.ThreadSafe:       1,
	fabric.ThreadFID:        2,
	fabric.ThreadEndpoint:   3,
	fabric.ThreadCompletion: 4,
	fabric.ThreadDomain:     5,
	fabric.ThreadUnspec:     6,
}

var progressRank = map[fabric.Progress]int{
	fabric.ProgressAuto:   1,
	fabric.ProgressManual: 2,
	fabric.ProgressUnspec: 3,
}

var resourceMgmtRank = map[fabric.ResourceMgmt]int{
	fabric.RMEnabled:  1,
	fabric.RMDisabled: 2,
	fabric.RMUnspec:   3,
}

// ThreadingRank returns the rank of a threading model, or -1 if unknown.
func ThreadingRank(t fabric.Threading) int { return lookup(threadingRank, t) }

// ProgressRank returns the rank of a progress model, or -1 if unknown.
func ProgressRank(p fabric.Progress) int { return lookup(progressRank, p) }

// ResourceMgmtRank returns the rank of a resource management model, or -1
// if unknown.
func ResourceMgmtRank(r fabric.ResourceMgmt) int { return lookup(resourceMgmtRank, r) }

func lookup[K comparable](table map[K]int, k K) int {
	if r, ok := table[k]; ok {
		return r
	}
	return rankUnknown
}

// rankSatisfies reports whether a requester asking for a model of rank
// requested accepts a provider offering rank offered.
func rankSatisfies(requested, offered int) bool {
	if requested == rankUnknown || offered == rankUnknown {
		return false
	}
	return requested >= offered
}

// ThreadingCompatible reports whether a provider offering offered can serve
// a request for requested.
func ThreadingCompatible(offered, requested fabric.Threading) bool {
	return rankSatisfies(ThreadingRank(requested), ThreadingRank(offered))
}

// ProgressCompatible reports whether a provider offering offered can serve
// a request for requested.
func ProgressCompatible(offered, requested fabric.Progress) bool {
	return rankSatisfies(ProgressRank(requested), ProgressRank(offered))
}

// ResourceMgmtCompatible reports whether a provider offering offered can
// serve a request for requested.
func ResourceMgmtCompatible(offered, requested fabric.ResourceMgmt) bool {
	return rankSatisfies(ResourceMgmtRank(requested), ResourceMgmtRank(offered))
}
