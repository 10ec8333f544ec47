package factorial

import "fmt"

// Range is an inclusive interval of factors assigned to one worker.
// A range with End == Start-1 is empty; its product is 1.
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of factors in r.
func (r Range) Len() int64 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// IsEmpty reports whether r holds no factors.
func (r Range) IsEmpty() bool { return r.Len() == 0 }

func (r Range) String() string {
	if r.IsEmpty() {
		return fmt.Sprintf("[%d, %d] (empty)", r.Start, r.End)
	}
	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}

// Partition splits [1, argument] into workers contiguous ranges.
//
// Every range except the first holds exactly argument/workers factors and
// they are laid out from the high end downward; the first range starts at 1
// and absorbs the remainder. When workers exceeds argument the high ranges
// are empty and the first one covers everything. A workers value below 1 is
// treated as 1. The result is a pure function of its inputs.
func Partition(argument int64, workers int) []Range {
	if workers < 1 {
		workers = 1
	}
	if argument < 0 {
		argument = 0
	}
	size := argument / int64(workers)
	ranges := make([]Range, workers)

	end := argument
	for i := workers - 1; i >= 0; i-- {
		ranges[i] = Range{Start: end - size + 1, End: end}
		end = ranges[i].Start - 1
	}
	ranges[0].Start = 1
	return ranges
}

// WorkerCount applies the parallelism policy: a single worker for arguments
// below minParallelArgument, otherwise available workers. A non-positive
// minParallelArgument selects DefaultMinParallelArgument and available is
// never reported below 1.
func WorkerCount(argument int64, available, minParallelArgument int) int {
	if minParallelArgument <= 0 {
		minParallelArgument = DefaultMinParallelArgument
	}
	if argument < int64(minParallelArgument) || available < 1 {
		return 1
	}
	return available
}
