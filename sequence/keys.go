package sequence

// Raw frames and warped outputs share one map. Raw frame i lives at key i;
// the warped output for frame i lives at warpedKeyBase-i, so the two key
// spaces never overlap for i >= 0.
const warpedKeyBase = -1

func rawKey(index int) int {
	return index
}

func warpedKey(index int) int {
	return warpedKeyBase - index
}

func isWarpedKey(key int) bool {
	return key <= warpedKeyBase
}
