// Package transfer keeps the application side of clipboard, primary selection
// and drag-and-drop: what this application offers, which paste requests are in
// flight and what a window accepts as a drop target.
package transfer

import (
	"slices"
	"sync"

	"github.com/bnema/desktopkit/internal/event"
)

// Offer is the data this application currently provides on one source
type Offer struct {
	Source     event.DataSource
	Generation uint64
	Contents   []event.DataTransferContent
}

// MimeTypes lists the offered mime types in the order they were put
func (o Offer) MimeTypes() []string {
	out := make([]string, 0, len(o.Contents))
	for _, c := range o.Contents {
		out = append(out, c.MimeType)
	}
	return out
}

// Data returns the bytes for mimeType, nil if it is not offered
func (o Offer) Data(mimeType string) []byte {
	for _, c := range o.Contents {
		if c.MimeType == mimeType {
			return c.Data
		}
	}
	return nil
}

// Offers holds at most one current offer per source. A new Put supersedes the
// previous offer on that source.
type Offers struct {
	mu      sync.Mutex
	current map[event.DataSource]Offer
	gen     uint64
}

// NewOffers creates an empty set
func NewOffers() *Offers {
	return &Offers{current: make(map[event.DataSource]Offer)}
}

// Put replaces the offer on source. It returns the new offer and the one it
// superseded, if any. Duplicate mime types keep their first content.
func (o *Offers) Put(source event.DataSource, contents ...event.DataTransferContent) (Offer, *Offer) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var kept []event.DataTransferContent
	for _, c := range contents {
		if slices.ContainsFunc(kept, func(k event.DataTransferContent) bool { return k.MimeType == c.MimeType }) {
			continue
		}
		kept = append(kept, c)
	}

	o.gen++
	next := Offer{Source: source, Generation: o.gen, Contents: kept}
	prev, had := o.current[source]
	o.current[source] = next
	if had {
		return next, &prev
	}
	return next, nil
}

// Current returns the live offer on source
func (o *Offers) Current(source event.DataSource) (Offer, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	off, ok := o.current[source]
	return off, ok
}

// Cancel drops the offer on source, as when the toolkit reports
// DataTransferCancelled because another client took the selection
func (o *Offers) Cancel(source event.DataSource) (Offer, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	off, ok := o.current[source]
	delete(o.current, source)
	return off, ok
}

// Data answers the toolkit's request for offered bytes
func (o *Offers) Data(source event.DataSource, mimeType string) []byte {
	off, ok := o.Current(source)
	if !ok {
		return nil
	}
	return off.Data(mimeType)
}
