package media

// SizeVerdict is the result of checking an artifact against the configured
// deliverable ceiling. A rejection is a normal terminal outcome, not an error.
type SizeVerdict struct {
	Pass   bool
	Actual int64
	Limit  int64
}

// CheckSize compares an artifact's size against the ceiling. An artifact of
// exactly the limit passes; one byte over rejects.
func CheckSize(a Artifact, maxBytes int64) SizeVerdict {
	return SizeVerdict{
		Pass:   a.Size <= maxBytes,
		Actual: a.Size,
		Limit:  maxBytes,
	}
}
