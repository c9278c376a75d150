package geometry

import (
	"strconv"
)

// Placement describes where the globals of one size class go: one section
// per size class and mutability.
type Placement struct {
	// SizeClass is the allocation size the section holds.
	SizeClass uint64
	// Base is the first address of the section, before SIZEOF_HEADERS.
	Base     uint64
	Capacity uint64
	ReadOnly bool
}

// Label is the size-class part of the section name.
func (p Placement) Label() string {
	label := strconv.FormatUint(p.SizeClass, 10)
	if p.ReadOnly {
		label = "read_only_" + label
	}
	return label
}

// SectionName is the output section the compiler places the globals in.
func (p Placement) SectionName() string {
	return "lf_section_" + p.Label()
}

// Placements lists the global sections in ascending size-class order, the
// mutable half of each class followed by its read-only half.
func (l *Layout) Placements() []Placement {
	half := l.GlobalRegionSize / 2
	out := make([]Placement, 0, 2*l.NumRegions)
	for i, size := range l.SizeClasses() {
		base := l.RegionBase(uint64(i)+1) + l.GlobalRegionOffset
		out = append(out,
			Placement{SizeClass: size, Base: base, Capacity: half},
			Placement{SizeClass: size, Base: base + half, Capacity: half, ReadOnly: true},
		)
	}
	return out
}
