package dirstat

import (
	"errors"
)

// ErrNotFound is returned by SmallestAtLeast when no directory is large enough.
var ErrNotFound = errors.New("no directory large enough")

// Used is the size of the root directory.
func (d DirectorySizes) Used() uint64 {
	return d[Root()]
}

// SumBelow adds up every directory whose size is strictly below threshold.
// Nested directories are counted once each, so files may be counted more than once.
func (d DirectorySizes) SumBelow(threshold uint64) uint64 {
	var sum uint64

	for _, size := range d {
		if size < threshold {
			sum += size
		}
	}

	return sum
}

// SmallestAtLeast returns the smallest directory with a size of at least bound.
// Ties are broken by path so the result is stable. When the error is non-nil
// the returned path is the zero Path and carries no meaning.
func (d DirectorySizes) SmallestAtLeast(bound uint64) (Path, uint64, error) {
	var (
		best     Path
		bestSize uint64
		found    bool
	)

	for dir, size := range d {
		if size < bound {
			continue
		}

		if !found || size < bestSize || (size == bestSize && dir.String() < best.String()) {
			best, bestSize, found = dir, size, true
		}
	}

	if !found {
		return Path{}, 0, ErrNotFound
	}

	return best, bestSize, nil
}

// RequiredFreeSpace is how much must be deleted so that a disk of the given
// capacity with used bytes occupied has at least goal bytes free.
func RequiredFreeSpace(capacity, goal, used uint64) uint64 {
	if used > capacity {
		return goal + (used - capacity)
	}

	free := capacity - used
	if free >= goal {
		return 0
	}

	return goal - free
}
