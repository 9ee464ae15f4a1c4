package names

import (
	"fmt"

	"github.com/layerfab/layerfab-go/pkg/fabric"
)

// Delimiter separates the segments of a layered name.
const Delimiter = '_'

// span is a token's position inside the backing buffer.
type span struct {
	off, n int
}

// Tokens holds the result of Parse: one backing buffer and the ranges of
// each token within it.
type Tokens struct {
	buf   []byte
	spans []span
	alloc Allocator
}

// Len returns the number of tokens.
func (t *Tokens) Len() int {
	return len(t.spans)
}

// Bytes returns token i as a view into the backing buffer.
// The view is invalid after Release.
func (t *Tokens) Bytes(i int) []byte {
	s := t.spans[i]
	return t.buf[s.off : s.off+s.n]
}

// Token returns a copy of token i.
func (t *Tokens) Token(i int) string {
	return string(t.Bytes(i))
}

// Strings returns copies of all tokens.
func (t *Tokens) Strings() []string {
	out := make([]string, len(t.spans))
	for i := range t.spans {
		out[i] = t.Token(i)
	}
	return out
}

// Release returns the backing buffer to its allocator. Calling Release more
// than once is a no-op.
func (t *Tokens) Release() {
	if t == nil || t.buf == nil {
		return
	}
	t.alloc.Free(t.buf)
	t.buf = nil
	t.spans = nil
}

// Codec parses and composes layered names using Alloc for every buffer.
type Codec struct {
	Alloc Allocator
}

// DefaultCodec allocates from the Go heap.
var DefaultCodec = Codec{Alloc: HeapAllocator{}}

// Parse splits name with DefaultCodec. See Codec.Parse.
func Parse(name string, k int, prefixOnly bool) (*Tokens, error) {
	return DefaultCodec.Parse(name, k, prefixOnly)
}

// ComposeFabric builds a layered fabric name with DefaultCodec.
func ComposeFabric(prefix string, base *fabric.FabricAttr) (string, error) {
	return DefaultCodec.ComposeFabric(prefix, base)
}

// ComposeDomain builds a layered domain name with DefaultCodec.
func ComposeDomain(prefix string, base *fabric.DomainAttr) (string, error) {
	return DefaultCodec.ComposeDomain(prefix, base)
}

func (c Codec) allocator() Allocator {
	if c.Alloc == nil {
		return HeapAllocator{}
	}
	return c.Alloc
}

// Parse splits name on Delimiter into exactly k tokens, scanning left to
// right. Runs of delimiters separate a single pair of tokens and leading
// delimiters are skipped.
//
// Fewer than k tokens fails with fabric.ErrMalformed after the backing
// buffer has been released. Unless prefixOnly is set, any text after the
// k-th token's start is kept as part of the last token, so delimiters inside
// the final segment survive. With prefixOnly the remainder is discarded.
func (c Codec) Parse(name string, k int, prefixOnly bool) (*Tokens, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: token count %d", fabric.ErrMalformed, k)
	}

	alloc := c.allocator()
	buf, err := alloc.Alloc(len(name))
	if err != nil {
		return nil, fabric.ErrNoMemory
	}
	copy(buf, name)

	spans := make([]span, 0, k)
	pos := 0
	for len(spans) < k {
		for pos < len(buf) && buf[pos] == Delimiter {
			pos++
		}
		if pos == len(buf) {
			break
		}
		start := pos
		for pos < len(buf) && buf[pos] != Delimiter {
			pos++
		}
		spans = append(spans, span{off: start, n: pos - start})
	}

	if len(spans) < k {
		alloc.Free(buf)
		return nil, fmt.Errorf("%w: %q has %d of %d segments", fabric.ErrMalformed, name, len(spans), k)
	}

	if !prefixOnly {
		last := &spans[k-1]
		last.n = len(buf) - last.off
	}

	return &Tokens{buf: buf, spans: spans, alloc: alloc}, nil
}

// ComposeFabric returns "<prefix>_<base.ProvName>_<base.Name>".
func (c Codec) ComposeFabric(prefix string, base *fabric.FabricAttr) (string, error) {
	return c.compose(prefix, base.ProvName, base.Name)
}

// ComposeDomain returns "<prefix>_<base.Name>".
func (c Codec) ComposeDomain(prefix string, base *fabric.DomainAttr) (string, error) {
	return c.compose(prefix, base.Name)
}

// compose joins prefix and parts in a buffer sized exactly for the result.
// The buffer goes back to the allocator once the string has been built.
func (c Codec) compose(prefix string, parts ...string) (string, error) {
	n := len(prefix)
	for _, p := range parts {
		n += 1 + len(p)
	}

	alloc := c.allocator()
	buf, err := alloc.Alloc(n)
	if err != nil {
		return "", fabric.ErrNoMemory
	}

	w := copy(buf, prefix)
	for _, p := range parts {
		buf[w] = Delimiter
		w++
		w += copy(buf[w:], p)
	}

	name := string(buf)
	alloc.Free(buf)
	return name, nil
}
