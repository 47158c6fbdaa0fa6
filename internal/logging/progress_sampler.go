package logging

// ProgressSampler keeps human-readable progress logs sparse: it lets a sample
// through only when the ratio enters a new bucket.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler buckets ratios in [0,1]; bucketSize defaults to 0.1.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 || bucketSize > 1 {
		bucketSize = 0.1
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

func (s *ProgressSampler) ShouldLog(ratio float64) bool {
	if s == nil {
		return true
	}
	if ratio < 0 {
		return false
	}
	if ratio > 1 {
		ratio = 1
	}
	bucket := int(ratio / s.bucketSize)
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
