package batch

// AutoChunkSize picks a chunk size for total items. UI-bound callers get
// smaller chunks so pause and cancel take effect sooner.
func AutoChunkSize(total int, uiBound bool) int {
	if total <= 0 {
		return 1
	}
	lo, hi, div := 50, 500, 10
	if uiBound {
		lo, hi, div = 10, 50, 20
	}
	n := min(max(total/div, lo), hi)
	return min(n, total)
}
