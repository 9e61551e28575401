// Package induction implements the sequential FRAIG driver (spec.md
// §4.6): k-frame unrolling with speculative class-based reduction,
// inductive equivalence checking over the unrolled frames, and the
// prefix-simulation safeguard against classes that only hold on
// unreachable or short-horizon states.
package induction

import (
	"fmt"

	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/class"
)

// Frames holds one k-frame unrolling of orig built while speculatively
// substituting each node's class representative (spec.md §4.6
// "Unrolling with speculative reduction").
type Frames struct {
	fraiged   *aig.Manager
	numFrames int

	// images[f][id] is frame f's fraiged-side signed reference for orig
	// node id.
	images [][]aig.Ref

	// nAsserts is the number of POs emitted as speculation constraints;
	// every PO beyond this index is a final-frame claim (spec.md §4.6
	// "Inductive proof": "first nAsserts are speculation constraints
	// ... the remaining POs are the claims for the k-th frame").
	nAsserts int
}

// Fraiged returns the freshly strashed AIG built across all frames.
func (fr *Frames) Fraiged() *aig.Manager { return fr.fraiged }

// NumAsserts returns the count of speculation-constraint POs (a prefix
// of Fraiged().POs()); the rest are the k-th frame's claims.
func (fr *Frames) NumAsserts() int { return fr.nAsserts }

// NumFrames returns how many combinational copies were unrolled.
func (fr *Frames) NumFrames() int { return fr.numFrames }

// BuildFrames unrolls numFrames combinational copies of orig (frame 0's
// latch-outputs are left as free primary inputs, representing an
// arbitrary register state rather than the reset state, per spec.md
// §4.6), substituting each node's class representative's image as it is
// built and asserting a speculation-constraint miter wherever the
// substitution actually changes the node (grounded on
// Fra_FramesWithClasses/Fra_FramesConstrainNode in
// original_source/abc/src/proof/fra/fraInd.c).
func BuildFrames(orig *aig.Manager, cls *class.Cla, numFrames int) (*Frames, error) {
	if numFrames < 1 {
		return nil, fmt.Errorf("induction: numFrames must be >= 1, got %d", numFrames)
	}

	fraiged := aig.NewManager()
	images := make([][]aig.Ref, numFrames)
	for f := range images {
		images[f] = make([]aig.Ref, orig.NumNodes())
	}

	fr := &Frames{fraiged: fraiged, numFrames: numFrames, images: images}

	constImg := aig.Ref{ID: fraiged.Const1()}
	for f := 0; f < numFrames; f++ {
		images[f][orig.Const1()] = constImg
	}

	pis := orig.PIs()
	for f := 0; f < numFrames; f++ {
		for _, pi := range pis {
			images[f][pi] = aig.Ref{ID: fraiged.CreatePI()}
		}
	}

	los, lis := orig.LatchOuts(), orig.LatchIns()
	for _, lo := range los {
		images[0][lo] = aig.Ref{ID: fraiged.CreatePI()} // frame 0's free register state
	}

	// Frames 0..last-1 substitute each node's class representative and
	// assert the substitution as a speculation-constraint hypothesis
	// (constrainNode). The last frame does neither: it builds each node's
	// own, unsubstituted image and instead records a claim miter for every
	// node that has a representative (claimNode) — the "standard
	// equivalence query" spec.md §4.6 calls for "for each class in the
	// last frame", now independently checked under the assumed hypotheses
	// rather than itself assumed. nAsserts is therefore captured right
	// before the last frame is processed, since every PO created from
	// that point on is a claim, never an assert.
	last := numFrames - 1
	for f := 0; f < last; f++ {
		for _, lo := range los {
			fr.constrainNode(orig, cls, lo, f)
		}
		orig.IterTopo(func(n *aig.Node) {
			if n.Type != aig.TypeAnd {
				return
			}
			a0 := fr.resolve(f, n.Fanin0)
			a1 := fr.resolve(f, n.Fanin1)
			images[f][n.ID] = fraiged.CreateAnd(a0, a1)
			fr.constrainNode(orig, cls, n.ID, f)
		})
		for i, li := range lis {
			driver := orig.Node(li).Fanin0
			images[f+1][los[i]] = fr.resolve(f, driver)
		}
	}

	fr.nAsserts = len(fraiged.POs())

	for _, lo := range los {
		fr.claimNode(orig, cls, lo, last)
	}
	orig.IterTopo(func(n *aig.Node) {
		if n.Type != aig.TypeAnd {
			return
		}
		a0 := fr.resolve(last, n.Fanin0)
		a1 := fr.resolve(last, n.Fanin1)
		images[last][n.ID] = fraiged.CreateAnd(a0, a1)
		fr.claimNode(orig, cls, n.ID, last)
	})

	return fr, nil
}

// ImageOf returns the fraiged-side signed reference standing in for
// orig node id in frame f.
func (fr *Frames) ImageOf(f int, id aig.ID) aig.Ref { return fr.images[f][id] }

func (fr *Frames) resolve(f int, r aig.Ref) aig.Ref {
	img := fr.images[f][r.ID]
	if r.Inv {
		return img.Not()
	}
	return img
}

// constrainNode substitutes id's class representative's image for id's
// own freshly built image within frame f, if a representative exists and
// the substitution is not already structurally a no-op, and records a
// speculation-constraint PO asserting the two agree (spec.md §4.6; the
// phase-difference correction mirrors Fra_FramesConstrainNode's
// Aig_NotCond(pMiter, fPhase^reprPhase) exactly, using each node's own
// structural Phase rather than any sign bit tracked by the class
// manager, since the two coincide for genuine equivalences and Phase is
// always defined regardless of proof status).
func (fr *Frames) constrainNode(orig *aig.Manager, cls *class.Cla, id aig.ID, f int) {
	r, ok := cls.Repr(id)
	if !ok {
		return
	}
	own := fr.images[f][id]
	reprRaw := fr.images[f][r.ID]
	if own.ID == reprRaw.ID {
		return // structural hashing already unified the two images
	}
	corrected := reprRaw
	if orig.Node(id).Phase != orig.Node(r.ID).Phase {
		corrected = corrected.Not()
	}
	fr.images[f][id] = corrected
	miter := fr.fraiged.Xor(own, corrected)
	fr.fraiged.CreatePO(miter)
}

// claimNode builds the same own-vs-representative miter constrainNode
// does, but for the final frame: it neither substitutes id's image (frame
// "last" has no successor frame to carry a substituted value into) nor
// treats the miter as an assumed hypothesis — it is instead left as a
// claim PO, independently checked by checkFrames under the hypotheses
// asserted in every earlier frame. A no-op if id has no class
// representative, or if the two images are already the same fraiged node
// (structurally forced equal, nothing to check).
func (fr *Frames) claimNode(orig *aig.Manager, cls *class.Cla, id aig.ID, f int) {
	r, ok := cls.Repr(id)
	if !ok {
		return
	}
	own := fr.images[f][id]
	reprRaw := fr.images[f][r.ID]
	if own.ID == reprRaw.ID {
		return
	}
	corrected := reprRaw
	if orig.Node(id).Phase != orig.Node(r.ID).Phase {
		corrected = corrected.Not()
	}
	miter := fr.fraiged.Xor(own, corrected)
	fr.fraiged.CreatePO(miter)
}
