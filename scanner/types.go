package scanner

// NormalizeResult counts what the normalize pass did
type NormalizeResult struct {
	Found     int
	Processed int
	Discarded int
	Failed    int
	Outputs   []string
}

// DedupeResult holds the ordered duplicates of one pass
type DedupeResult struct {
	Scanned    int
	Failed     int
	Duplicates []string
	// Kept maps each duplicate to the first path that produced its fingerprint
	Kept map[string]string
}
