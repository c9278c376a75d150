package sizeclass

import (
	"fmt"
	"math/bits"

	"github.com/rs/zerolog/log"

	"github.com/lowfat-project/lfgen/pkg/lowfat/geometry"
)

// ConsistencyError reports tables that would make the runtime translate a
// stack pointer into the wrong region.
type ConsistencyError struct {
	// Index is the table index of the offending entry, -1 for whole-table checks.
	Index  int
	Reason string
}

func (e *ConsistencyError) Error() string {
	if e.Index < 0 {
		return "inconsistent size-class tables: " + e.Reason
	}
	return fmt.Sprintf("inconsistent size-class tables at index %d: %s", e.Index, e.Reason)
}

// Verify checks the tables against the layout they were built for:
//   - sizes are min for classes below MIN_ALLOC_SIZE, zero above the stack
//     maximum, and non-decreasing in between;
//   - every mask matches its size;
//   - the offset of every non-zero size lands the mirror in the heap region
//     of that size class;
//   - the non-zero entries plus the heap classes the stack never uses add up
//     to the region count the offsets were computed with.
//
// The region checks are skipped when there are no heap size classes.
func Verify(l *geometry.Layout, t *Tables) error {
	var (
		nonZero uint64
		prev    uint64
		zeroed  bool
	)
	// Walk in ascending bit order.
	for bit := 0; bit < TableLength; bit++ {
		i := TableLength - 1 - bit
		size := t.Sizes[i]

		if size == 0 {
			zeroed = true
			if t.Masks[i] != 0 || t.Offsets[i] != 0 {
				return &ConsistencyError{Index: i, Reason: "out-of-range class has a mask or offset"}
			}
			continue
		}
		if zeroed {
			return &ConsistencyError{Index: i, Reason: "non-zero size above an out-of-range class"}
		}
		if size < prev {
			return &ConsistencyError{Index: i, Reason: fmt.Sprintf("size %d is smaller than the previous class %d", size, prev)}
		}
		if bit < 64 && uint64(1)<<bit < l.MinAllocSize && size != l.MinAllocSize {
			return &ConsistencyError{Index: i, Reason: fmt.Sprintf("class below the minimum has size %d, want %d", size, l.MinAllocSize)}
		}
		if t.Masks[i] != Mask(size) {
			return &ConsistencyError{Index: i, Reason: fmt.Sprintf("mask %#x does not match size %d", t.Masks[i], size)}
		}
		prev = size
		nonZero++
	}

	if l.NumRegions == 0 {
		log.Warn().Msg("No heap size classes configured, skipping region checks")
		return nil
	}

	for i, size := range t.Sizes {
		if size == 0 {
			continue
		}
		if err := verifyRegion(l, i, size, t.Offsets[i]); err != nil {
			return err
		}
	}

	var unusedByStack uint64
	for _, class := range l.SizeClasses() {
		if class > l.MaxStackAllocSize {
			unusedByStack++
		}
	}
	if nonZero+unusedByStack != t.NonZeroRegionCount {
		return &ConsistencyError{Index: -1, Reason: fmt.Sprintf(
			"%d non-zero sizes and %d heap-only classes do not match the region count %d",
			nonZero, unusedByStack, t.NonZeroRegionCount)}
	}
	return nil
}

// verifyRegion replays the runtime's translation for one entry: the mirror of
// a stack object of class size is at BASE_STACK_REGION_NUM + offset/REGION_SIZE.
func verifyRegion(l *geometry.Layout, i int, size uint64, offset int64) error {
	region := int64(l.RegionSize)
	if region <= 0 || offset%region != 0 {
		return &ConsistencyError{Index: i, Reason: fmt.Sprintf("offset %d is not a whole number of regions", offset)}
	}
	target := int64(l.BaseStackRegionNum) + offset/region

	want := int64(bits.TrailingZeros64(size)) - int64(l.MinAllocSizeLog) + 1
	if target != want {
		return &ConsistencyError{Index: i, Reason: fmt.Sprintf(
			"size %d is mirrored into region %d, its heap region is %d", size, target, want)}
	}
	if target < 1 || uint64(target) > l.NumRegions {
		return &ConsistencyError{Index: i, Reason: fmt.Sprintf(
			"size %d has no heap region (region %d of %d)", size, target, l.NumRegions)}
	}
	return nil
}
