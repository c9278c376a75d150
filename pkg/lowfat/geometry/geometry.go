// Package geometry derives the region layout of the low-fat address space
// from a validated configuration.
//
// The address space is cut into regions of REGION_SIZE bytes. Region i (from
// 1) serves allocations of size MIN_ALLOC_SIZE << (i-1), and each region is
// split into a heap, a global and a stack part, in that order.
package geometry

import (
	"fmt"
	"math/bits"

	"github.com/rs/zerolog/log"

	"github.com/lowfat-project/lfgen/pkg/lib/validate"
	"github.com/lowfat-project/lfgen/pkg/lowfat/config"
)

// Keys of the values added to the configuration by Derive, in the order they
// are appended.
const (
	HeapRegionOffset   = "HEAP_REGION_OFFSET"
	GlobalRegionOffset = "GLOBAL_REGION_OFFSET"
	StackRegionOffset  = "STACK_REGION_OFFSET"
	RegionSize         = "REGION_SIZE"
	RegionSizeLog      = "REGION_SIZE_LOG"
	MinAllocSizeLog    = "MIN_ALLOC_SIZE_LOG"
	NumRegions         = "NUM_REGIONS"
	BaseStackRegionNum = "BASE_STACK_REGION_NUM"
)

// Layout is a configuration together with everything derived from it.
type Layout struct {
	// Config is the input configuration augmented with the derived keys.
	Config *config.Configuration

	HeapRegionSize     uint64
	GlobalRegionSize   uint64
	StackRegionSize    uint64
	MinAllocSize       uint64
	MaxHeapAllocSize   uint64
	MaxStackAllocSize  uint64
	MaxGlobalAllocSize uint64
	StackSize          uint64

	HeapRegionOffset   uint64
	GlobalRegionOffset uint64
	StackRegionOffset  uint64
	RegionSize         uint64
	RegionSizeLog      uint64
	MinAllocSizeLog    uint64
	MaxHeapAllocLog    uint64
	NumRegions         uint64
	BaseStackRegionNum uint64
}

// Derive computes the region geometry. Missing required keys are reported as
// config.Validate does; cfg is not modified.
func Derive(cfg *config.Configuration) (*Layout, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	l := &Layout{
		HeapRegionSize:     cfg.MustGet(config.HeapRegionSize),
		GlobalRegionSize:   cfg.MustGet(config.GlobalRegionSize),
		StackRegionSize:    cfg.MustGet(config.StackRegionSize),
		MinAllocSize:       cfg.MustGet(config.MinAllocSize),
		MaxHeapAllocSize:   cfg.MustGet(config.MaxHeapAllocSize),
		MaxStackAllocSize:  cfg.MustGet(config.MaxStackAllocSize),
		MaxGlobalAllocSize: cfg.MustGet(config.MaxGlobalAllocSize),
		StackSize:          cfg.MustGet(config.StackSize),
	}

	l.HeapRegionOffset = 0
	l.GlobalRegionOffset = l.HeapRegionOffset + l.HeapRegionSize
	stackOffset, carry := bits.Add64(l.GlobalRegionOffset, l.GlobalRegionSize, 0)
	if carry != 0 {
		return nil, &ArithmeticDomainError{Key: StackRegionOffset, Value: l.GlobalRegionSize,
			Reason: "heap and global regions exceed 64 bits"}
	}
	l.StackRegionOffset = stackOffset
	regionSize, carry := bits.Add64(l.StackRegionOffset, l.StackRegionSize, 0)
	if carry != 0 {
		return nil, &ArithmeticDomainError{Key: RegionSize, Value: l.StackRegionSize,
			Reason: "heap, global and stack regions exceed 64 bits"}
	}
	l.RegionSize = regionSize

	var err error
	if l.RegionSizeLog, err = Log2(RegionSize, l.RegionSize); err != nil {
		return nil, err
	}
	if l.MinAllocSizeLog, err = Log2(config.MinAllocSize, l.MinAllocSize); err != nil {
		return nil, err
	}
	if l.MaxHeapAllocLog, err = Log2(config.MaxHeapAllocSize, l.MaxHeapAllocSize); err != nil {
		return nil, err
	}
	if err := validate.IsEven(l.GlobalRegionSize, "must be even, it is split into a mutable and a read-only half"); err != nil {
		return nil, &ArithmeticDomainError{Key: config.GlobalRegionSize, Value: l.GlobalRegionSize, Reason: err.Error()}
	}

	if l.MaxHeapAllocLog >= l.MinAllocSizeLog {
		l.NumRegions = l.MaxHeapAllocLog - l.MinAllocSizeLog + 1
	}
	l.BaseStackRegionNum = l.NumRegions + 1

	// The stack mirror is the last region in use; everything up to its end
	// has to be addressable.
	hi, _ := bits.Mul64(l.BaseStackRegionNum+1, l.RegionSize)
	if hi != 0 {
		return nil, &ArithmeticDomainError{Key: RegionSize, Value: l.RegionSize,
			Reason: fmt.Sprintf("%d regions do not fit in a 64-bit address space", l.BaseStackRegionNum+1)}
	}

	log.Debug().
		Uints64("sizes", l.SizeClasses()).
		Uint64("count", l.NumRegions).
		Msg("Possible heap allocation sizes")

	l.Config = cfg.With(
		config.Entry{Name: HeapRegionOffset, Value: l.HeapRegionOffset},
		config.Entry{Name: GlobalRegionOffset, Value: l.GlobalRegionOffset},
		config.Entry{Name: StackRegionOffset, Value: l.StackRegionOffset},
		config.Entry{Name: RegionSize, Value: l.RegionSize},
		config.Entry{Name: RegionSizeLog, Value: l.RegionSizeLog},
		config.Entry{Name: MinAllocSizeLog, Value: l.MinAllocSizeLog},
		config.Entry{Name: NumRegions, Value: l.NumRegions},
		config.Entry{Name: BaseStackRegionNum, Value: l.BaseStackRegionNum},
	)
	return l, nil
}

// SizeClasses returns the heap allocation sizes, smallest first. Class i is
// served by region i+1.
func (l *Layout) SizeClasses() []uint64 {
	sizes := make([]uint64, 0, l.NumRegions)
	for i := uint64(0); i < l.NumRegions; i++ {
		sizes = append(sizes, l.MinAllocSize<<i)
	}
	return sizes
}

// RegionBase returns the first address of region n.
func (l *Layout) RegionBase(n uint64) uint64 {
	return n * l.RegionSize
}

// Log2 returns the base-2 logarithm of v, which must be a power of two.
func Log2(key string, v uint64) (uint64, error) {
	if err := validate.IsPowerOfTwo(v, "not a power of two"); err != nil {
		return 0, &ArithmeticDomainError{Key: key, Value: v, Reason: err.Error()}
	}
	return uint64(bits.TrailingZeros64(v)), nil
}
