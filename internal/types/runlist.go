package types

// DataRun is one cluster extent of a non-resident attribute.
type DataRun struct {
	// LCN is the absolute starting logical cluster number.
	LCN uint64
	// Clusters is the number of clusters in the run.
	Clusters uint64
	// Sparse marks a run with no offset field; it has no clusters on disk.
	Sparse bool
}

// RunList is the ordered list of extents that make up an attribute's data.
// Order is significant: it is the byte order of the reconstructed stream.
type RunList []DataRun

// TotalClusters returns the sum of all run lengths.
func (rl RunList) TotalClusters() uint64 {
	var total uint64
	for _, run := range rl {
		total += run.Clusters
	}
	return total
}

// ByteLength returns the number of bytes the runs cover at the given cluster size.
func (rl RunList) ByteLength(bytesPerCluster uint32) uint64 {
	return rl.TotalClusters() * uint64(bytesPerCluster)
}
