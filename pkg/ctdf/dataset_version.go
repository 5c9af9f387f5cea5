package ctdf

import "time"

// DatasetVersion records the last imported revision of one document in a dataset
type DatasetVersion struct {
	Dataset    string
	Identifier string

	Hash         string
	ETag         string
	LastModified string

	ImportedAt time.Time
}

// Matches reports whether a freshly fetched document is the same revision as this one
func (v *DatasetVersion) Matches(hash string, etag string, lastModified string) bool {
	if v == nil {
		return false
	}

	if hash != "" && v.Hash != "" {
		return v.Hash == hash
	}
	if etag != "" && v.ETag != "" {
		return v.ETag == etag
	}
	if lastModified != "" && v.LastModified != "" {
		return v.LastModified == lastModified
	}

	return false
}
