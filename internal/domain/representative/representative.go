// Package representative models the staff records shown on the region map and
// decides which of them belong to a region.
package representative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Representative is one staff record.  Values are treated as an immutable
// snapshot once handed to the map service.
type Representative struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Position   string       `json:"position,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Email      string       `json:"email,omitempty"`
	RegionIDs  Associations `json:"regionId"`
	Activities []string     `json:"activity,omitempty"`
}

// Associations lists the regions or regional group codes a representative
// covers.  In JSON it accepts a single string, an array of strings, or a
// falsy scalar (null, false, 0, "") meaning "not assigned".
type Associations []string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Associations) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")), isZeroNumber(data):
		*a = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*a = nil
			return nil
		}
		*a = Associations{s}
		return nil
	case len(data) > 0 && data[0] == '[':
		var raw []*string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("representative: regionId: %w", err)
		}
		out := make(Associations, 0, len(raw))
		for _, s := range raw {
			if s != nil {
				out = append(out, *s)
			}
		}
		*a = out
		return nil
	}
	return fmt.Errorf("representative: regionId must be a string or an array, got %s", data)
}

func isZeroNumber(data []byte) bool {
	if len(data) == 0 || (data[0] != '-' && (data[0] < '0' || data[0] > '9')) {
		return false
	}
	var f float64
	return json.Unmarshal(data, &f) == nil && f == 0
}

// Present returns the non-empty associations in their original order.
func (a Associations) Present() []string {
	out := make([]string, 0, len(a))
	for _, v := range a {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Source supplies the full representative collection.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	// Fetch returns the current collection.
	Fetch(ctx context.Context) ([]Representative, error)
}

// Repository is a writable store of representatives.
type Repository interface {
	Source
	Get(ctx context.Context, id int64) (*Representative, error)
	// Create stores a new record and assigns rep.ID.
	Create(ctx context.Context, rep *Representative) error
	// Update replaces an existing record; a missing id is not found.
	Update(ctx context.Context, rep *Representative) error
	Delete(ctx context.Context, id int64) error
}

//Personal.AI order the ending
