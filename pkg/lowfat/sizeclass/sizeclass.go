// Package sizeclass builds the lookup tables the runtime uses to go from the
// bit position of an allocation size to its size class, alignment mask and
// mirror offset.
//
// Every table has one entry per bit position 0..64 and is stored most
// significant bit first: index 0 describes 2^64 and index 64 describes 2^0.
package sizeclass

import (
	"fmt"
	"math/big"

	"github.com/lowfat-project/lfgen/pkg/lowfat/geometry"
)

// TableLength is the number of entries in every table.
const TableLength = 65

// Tables holds the stack-domain lookup tables.
type Tables struct {
	Sizes   [TableLength]uint64
	Masks   [TableLength]uint64
	Offsets [TableLength]int64

	// NonZeroRegionCount is the bit position of the size class that sits
	// one region below the stack mirror, so that (k - NonZeroRegionCount)
	// regions is the distance from the mirror to the region of class 2^k.
	NonZeroRegionCount uint64
}

// valuesForIndex applies transform to each power of two 2^i, i = 0..64,
// clamped into [minSize, maxSize]: smaller sizes use minSize, larger ones get the
// zero value. The result is stored most significant bit first.
func valuesForIndex[T any](minSize, maxSize uint64, transform func(size uint64) (T, error)) ([TableLength]T, error) {
	var out [TableLength]T
	for i := 0; i < TableLength; i++ {
		var (
			v   T
			err error
		)
		switch {
		case i < 64 && uint64(1)<<i < minSize:
			v, err = transform(minSize)
		case i == 64 || uint64(1)<<i > maxSize:
			// 2^64 is out of range for every 64-bit max.
		default:
			v, err = transform(uint64(1) << i)
		}
		if err != nil {
			return out, err
		}
		out[TableLength-1-i] = v
	}
	return out, nil
}

// Sizes computes the size table.
func Sizes(minSize, maxSize uint64) [TableLength]uint64 {
	out, _ := valuesForIndex(minSize, maxSize, func(size uint64) (uint64, error) { return size, nil })
	return out
}

// Masks computes the mask table.
func Masks(minSize, maxSize uint64) [TableLength]uint64 {
	out, _ := valuesForIndex(minSize, maxSize, func(size uint64) (uint64, error) { return Mask(size), nil })
	return out
}

// Offsets computes the offset table.
func Offsets(minSize, maxSize, nonZeroRegionCount, regionSize uint64) ([TableLength]int64, error) {
	return valuesForIndex(minSize, maxSize, func(size uint64) (int64, error) {
		return Offset(size, nonZeroRegionCount, regionSize)
	})
}

// Mask returns the mask that rounds an address down to a multiple of size.
// size must be a power of two.
func Mask(size uint64) uint64 {
	return ^(size - 1)
}

// Offset returns (log2(size) - nonZeroRegionCount) * regionSize.
func Offset(size, nonZeroRegionCount, regionSize uint64) (int64, error) {
	k, err := geometry.Log2("size class", size)
	if err != nil {
		return 0, err
	}
	delta := new(big.Int).SetUint64(k)
	delta.Sub(delta, new(big.Int).SetUint64(nonZeroRegionCount))
	delta.Mul(delta, new(big.Int).SetUint64(regionSize))
	if !delta.IsInt64() {
		return 0, &geometry.ArithmeticDomainError{
			Key:    geometry.RegionSize,
			Value:  regionSize,
			Reason: fmt.Sprintf("offset of size class %d does not fit in 64 bits", size),
		}
	}
	return delta.Int64(), nil
}

// NonZeroRegionCount returns the count the offsets are computed with. The
// stack mirror sits in region BASE_STACK_REGION_NUM = NUM_REGIONS + 1 and
// class 2^k lives in region k - MIN_ALLOC_SIZE_LOG + 1, so the distance in
// regions is k - (NUM_REGIONS + MIN_ALLOC_SIZE_LOG).
func NonZeroRegionCount(l *geometry.Layout) uint64 {
	return l.NumRegions + l.MinAllocSizeLog
}

// Build computes the stack-domain tables for the layout:
// min = MIN_ALLOC_SIZE, max = MAX_STACK_ALLOC_SIZE.
func Build(l *geometry.Layout) (*Tables, error) {
	t := &Tables{
		Sizes:              Sizes(l.MinAllocSize, l.MaxStackAllocSize),
		Masks:              Masks(l.MinAllocSize, l.MaxStackAllocSize),
		NonZeroRegionCount: NonZeroRegionCount(l),
	}
	offsets, err := Offsets(l.MinAllocSize, l.MaxStackAllocSize, t.NonZeroRegionCount, l.RegionSize)
	if err != nil {
		return nil, err
	}
	t.Offsets = offsets
	return t, nil
}

// Rows returns the tables as one row per entry, in table order.
func (t *Tables) Rows() []Row {
	rows := make([]Row, 0, TableLength)
	for i := 0; i < TableLength; i++ {
		rows = append(rows, Row{
			Index:    i,
			BitIndex: TableLength - 1 - i,
			Size:     t.Sizes[i],
			Mask:     t.Masks[i],
			Offset:   t.Offsets[i],
		})
	}
	return rows
}

// Row is one entry of the three tables.
type Row struct {
	Index int `json:"index"`
	// BitIndex is the bit position i of the requested size 2^i.
	BitIndex int    `json:"bit"`
	Size     uint64 `json:"size"`
	Mask     uint64 `json:"mask"`
	Offset   int64  `json:"offset"`
}
