package cache

import (
	"encoding/json"
	"fmt"
)

// RecordVersion is the current serialized record format version. Records
// with a different version are treated as misses, never as errors.
const RecordVersion = 1

// FileRecord is the persisted per-file embedding shape.
type FileRecord struct {
	Version   int       `json:"version"`
	Path      string    `json:"path"`
	Hash      string    `json:"hash"`
	Embedding []float32 `json:"embedding"`
	Timestamp int64     `json:"timestamp"`
}

// ProjectRecord is the persisted whole-project snapshot shape.
type ProjectRecord struct {
	Version        int                  `json:"version"`
	ProjectHash    string               `json:"projectHash"`
	FileEmbeddings map[string][]float32 `json:"fileEmbeddings"`
	Timestamp      int64                `json:"timestamp"`
}

func encodeFileRecord(rec FileRecord) ([]byte, error) {
	rec.Version = RecordVersion
	return json.Marshal(rec)
}

func decodeFileRecord(data []byte) (FileRecord, error) {
	var rec FileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return FileRecord{}, fmt.Errorf("decode file record: %w", err)
	}
	if rec.Version != RecordVersion {
		return FileRecord{}, fmt.Errorf("unsupported file record version %d", rec.Version)
	}
	return rec, nil
}

func encodeProjectRecord(rec ProjectRecord) ([]byte, error) {
	rec.Version = RecordVersion
	return json.Marshal(rec)
}

func decodeProjectRecord(data []byte) (ProjectRecord, error) {
	var rec ProjectRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return ProjectRecord{}, fmt.Errorf("decode project record: %w", err)
	}
	if rec.Version != RecordVersion {
		return ProjectRecord{}, fmt.Errorf("unsupported project record version %d", rec.Version)
	}
	return rec, nil
}
