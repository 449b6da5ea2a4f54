package mlt

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID means two elements were declared with the same id.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrDanglingReference means an entry, track, transition or the root
	// names an id that was never declared.
	ErrDanglingReference = errors.New("dangling reference")
)

// Kind is the element type behind a declared id.
type Kind int

const (
	ProducerKind Kind = iota
	PlaylistKind
	TractorKind
	FilterKind
	TransitionKind
)

func (k Kind) String() string {
	switch k {
	case ProducerKind:
		return "producer"
	case PlaylistKind:
		return "playlist"
	case TractorKind:
		return "tractor"
	case FilterKind:
		return "filter"
	case TransitionKind:
		return "transition"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Registry tracks every id declared in a document.
type Registry struct {
	kinds map[string]Kind
	order []string
}

func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Declare records id. Ids share one namespace across element kinds.
func (r *Registry) Declare(id string, kind Kind) error {
	if id == "" {
		return fmt.Errorf("%w: empty %s id", ErrDanglingReference, kind)
	}
	if prev, ok := r.kinds[id]; ok {
		return fmt.Errorf("%w: %q declared as %s and %s", ErrDuplicateID, id, prev, kind)
	}
	r.kinds[id] = kind
	r.order = append(r.order, id)
	return nil
}

// Lookup returns the kind declared for id.
func (r *Registry) Lookup(id string) (Kind, bool) {
	k, ok := r.kinds[id]
	return k, ok
}

// IDs returns declared ids in declaration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// require fails unless id is declared as one of kinds.
func (r *Registry) require(id, where string, kinds ...Kind) error {
	k, ok := r.kinds[id]
	if !ok {
		return fmt.Errorf("%w: %s references undeclared %q", ErrDanglingReference, where, id)
	}
	for _, want := range kinds {
		if k == want {
			return nil
		}
	}
	return fmt.Errorf("%w: %s references %s %q", ErrDanglingReference, where, k, id)
}

// Validate checks that every reference in doc resolves: the root producer,
// playlist entries, multitrack tracks and transition track indexes.
func Validate(doc *Document) (*Registry, error) {
	r := NewRegistry()
	if err := r.Declare(doc.MainBin.ID, PlaylistKind); err != nil {
		return nil, err
	}
	for _, p := range doc.Producers {
		if err := r.Declare(p.ID, ProducerKind); err != nil {
			return nil, err
		}
		for _, f := range p.Filters {
			if err := r.Declare(f.ID, FilterKind); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range doc.Playlists {
		if err := r.Declare(p.ID, PlaylistKind); err != nil {
			return nil, err
		}
	}
	if err := r.Declare(doc.Tractor.ID, TractorKind); err != nil {
		return nil, err
	}
	for _, tr := range doc.Tractor.Transitions {
		if err := r.Declare(tr.ID, TransitionKind); err != nil {
			return nil, err
		}
	}

	if err := r.require(doc.Root, "root", ProducerKind, PlaylistKind, TractorKind); err != nil {
		return nil, err
	}
	for _, p := range append([]Playlist{doc.MainBin}, doc.Playlists...) {
		for i, e := range p.Entries {
			where := fmt.Sprintf("playlist %s entry %d", p.ID, i)
			if err := r.require(e.Producer, where, ProducerKind, TractorKind); err != nil {
				return nil, err
			}
		}
	}
	tracks := doc.Tractor.Multitrack.Tracks
	for i, t := range tracks {
		where := fmt.Sprintf("track %d", i)
		if err := r.require(t.Producer, where, ProducerKind, PlaylistKind); err != nil {
			return nil, err
		}
	}
	for _, tr := range doc.Tractor.Transitions {
		for _, idx := range []int{tr.ATrack, tr.BTrack} {
			if idx < 0 || idx >= len(tracks) {
				return nil, fmt.Errorf("%w: transition %s names track %d of %d", ErrDanglingReference, tr.ID, idx, len(tracks))
			}
		}
	}
	return r, nil
}
