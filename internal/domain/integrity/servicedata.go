package integrity

import (
	"encoding/json"
	"time"
)

// ServiceKeyProofig is the key the stage map is stored under inside a
// check run's service data envelope.
const ServiceKeyProofig = "proofig"

// StageMapSource reports how a stage map was obtained from persisted
// service data.
type StageMapSource string

const (
	// StageMapParsed means the persisted JSON decoded cleanly.
	StageMapParsed StageMapSource = "parsed"
	// StageMapDefaulted means the blob was absent or unreadable and the
	// registry default was substituted.
	StageMapDefaulted StageMapSource = "defaulted"
)

// StageMapResult is the tagged outcome of decoding a persisted stage
// map. Callers branch on Source instead of checking for nil or relying
// on a decode error.
type StageMapResult struct {
	Map    StageMap
	Source StageMapSource
}

// DecodeStageMap reads a stage map out of a raw service-data blob,
// substituting the registry default when the blob is missing or does not
// decode. It never fails: upstream format drift degrades to a fresh
// default map rather than an error.
func DecodeStageMap(raw json.RawMessage, now time.Time) StageMapResult {
	if len(raw) == 0 {
		return StageMapResult{Map: NewStageMap(now), Source: StageMapDefaulted}
	}

	var envelope struct {
		Stages StageMap `json:"stages"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Stages == nil {
		return StageMapResult{Map: NewStageMap(now), Source: StageMapDefaulted}
	}

	for stage, data := range envelope.Stages {
		if data.History == nil {
			data.History = []HistoryEntry{}
			envelope.Stages[stage] = data
		}
	}

	return StageMapResult{Map: envelope.Stages, Source: StageMapParsed}
}

// EncodeStageMap renders the stage map into the service-data blob shape
func EncodeStageMap(m StageMap) (json.RawMessage, error) {
	envelope := struct {
		Stages StageMap `json:"stages"`
	}{Stages: m}
	return json.Marshal(envelope)
}
