package services

import (
	"encoding/json"
	"fmt"
)

const (
	// DefaultMaxAnonVotes bounds how many records one anonymous session keeps.
	DefaultMaxAnonVotes = 40

	// MaxAnonVotesLimit is the largest list that still fits a 4 KB session
	// cookie with ten-digit entry ids.
	MaxAnonVotesLimit = 50
)

// AnonVote is one anonymous vote record as kept in the session.
type AnonVote struct {
	EntryID uint      `json:"entry_id"`
	Type    Direction `json:"type"`
}

// AnonVotes is the ordered vote list of an anonymous session, oldest first.
// Methods never modify the receiver; they return a new list.
type AnonVotes []AnonVote

// Lookup returns the direction recorded for entryID.
func (v AnonVotes) Lookup(entryID uint) (Direction, bool) {
	for _, r := range v {
		if r.EntryID == entryID {
			return r.Type, true
		}
	}
	return "", false
}

// Remove drops every record for entryID.
func (v AnonVotes) Remove(entryID uint) AnonVotes {
	out := make(AnonVotes, 0, len(v))
	for _, r := range v {
		if r.EntryID != entryID {
			out = append(out, r)
		}
	}
	return out
}

// Upsert replaces any record for entryID with a new one at the end of the
// list. When the list grows past limit the oldest records are dropped.
func (v AnonVotes) Upsert(entryID uint, d Direction, limit int) AnonVotes {
	out := append(v.Remove(entryID), AnonVote{EntryID: entryID, Type: d})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Encode serializes the list for the session store.
func (v AnonVotes) Encode() (string, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeAnonVotes parses a session value written by Encode. Records with an
// unknown direction or a zero entry id are discarded.
func DecodeAnonVotes(raw string) (AnonVotes, error) {
	if raw == "" {
		return AnonVotes{}, nil
	}
	var decoded AnonVotes
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return AnonVotes{}, fmt.Errorf("decode anon votes: %w", err)
	}
	out := make(AnonVotes, 0, len(decoded))
	for _, r := range decoded {
		if r.EntryID == 0 || !r.Type.Valid() {
			continue
		}
		out = out.Remove(r.EntryID)
		out = append(out, r)
	}
	return out, nil
}
