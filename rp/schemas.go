package rp

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StatusSuccess is the healthy shape of the relying party's status report.
type StatusSuccess struct {
	Version            string  `json:"version"`
	Serial             uint32  `json:"serial"`
	Now                string  `json:"now"`
	LastUpdateStart    string  `json:"lastUpdateStart"`
	LastUpdateDone     string  `json:"lastUpdateDone"`
	LastUpdateDuration float64 `json:"lastUpdateDuration"`
}

// StatusError is the shape the relying party reports when it cannot produce
// a status, e.g. before the first validation run has completed.
type StatusError struct {
	Error string `json:"error"`
}

// StatusResponse is a tagged union of the two status shapes. Exactly one of
// Success and Err is non-nil after a successful decode.
//
// Resolution order is deterministic: the Success shape is attempted first
// (all six fields required), then the Error shape (error field required).
// A body satisfying both decodes as Success. A body matching neither is a
// decode failure, never a partial result.
type StatusResponse struct {
	Success *StatusSuccess
	Err     *StatusError
}

var statusSuccessKeys = []string{
	"version", "serial", "now",
	"lastUpdateStart", "lastUpdateDone", "lastUpdateDuration",
}

func (s *StatusResponse) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if hasKeys(fields, statusSuccessKeys...) {
		var success StatusSuccess
		if err := json.Unmarshal(data, &success); err != nil {
			return fmt.Errorf("status success shape: %w", err)
		}
		s.Success = &success
		s.Err = nil
		return nil
	}

	if hasKeys(fields, "error") {
		var fail StatusError
		if err := json.Unmarshal(data, &fail); err != nil {
			return fmt.Errorf("status error shape: %w", err)
		}
		s.Err = &fail
		s.Success = nil
		return nil
	}

	return errors.New("body matches neither status shape")
}

func (s StatusResponse) MarshalJSON() ([]byte, error) {
	switch {
	case s.Success != nil:
		return json.Marshal(s.Success)
	case s.Err != nil:
		return json.Marshal(s.Err)
	}
	return nil, errors.New("empty status response")
}

func hasKeys(fields map[string]json.RawMessage, keys ...string) bool {
	for _, key := range keys {
		if _, ok := fields[key]; !ok {
			return false
		}
	}
	return true
}

// VRP is a validated ROA payload entry.
type VRP struct {
	ASN       string `json:"asn"`
	Prefix    string `json:"prefix"`
	MaxLength int    `json:"maxLength"`
}

// ValidityResponse reports the RPKI validity of a single announced route.
// The three VRP lists partition the full VRP set used to compute State.
type ValidityResponse struct {
	Route struct {
		OriginASN string `json:"originAsn"`
		Prefix    string `json:"prefix"`
	} `json:"route"`
	Validity struct {
		State       string `json:"state"`
		Description string `json:"description"`
		VRPs        struct {
			Matched         []VRP `json:"matched"`
			UnmatchedAS     []VRP `json:"unmatchedAs"`
			UnmatchedLength []VRP `json:"unmatchedLength"`
		} `json:"vrps"`
	} `json:"validity"`
	GeneratedTime string `json:"generatedTime"`
}

// RoaSetEntry is one ROA in an origin's exported set.
type RoaSetEntry struct {
	ASN         string `json:"asn"`
	Prefix      string `json:"prefix"`
	MaxLength   int    `json:"maxLength"`
	TrustAnchor string `json:"trustAnchor"`
}

// RoaSetResponse is the exported ROA set for one origin. ROAs keeps the
// upstream ordering.
type RoaSetResponse struct {
	Metadata struct {
		Generated     int64  `json:"generated"`
		GeneratedTime string `json:"generatedTime"`
	} `json:"metadata"`
	ROAs []RoaSetEntry `json:"roas"`
}
