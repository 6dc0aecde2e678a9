package utils

// CreateRankList creates 1-based ranks for an already sorted list of count
// items.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(min(i+1, 1<<16-1))
	}
	return ranks
}
