package taxon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Wire keys of the flat candidate object.  Rank names themselves ("kingdom",
// "family", ...) carry hierarchy values and "cname_<rank>" keys carry common
// names.
const (
	keyID                     = "id"
	keyScientificName         = "scientific_name"
	keyCommonName             = "common_name"
	keyRank                   = "rank"
	keyTaxonRank              = "taxon_rank"
	keyTaxonomicStatus        = "taxonomic_status"
	keyAcceptedScientificName = "accepted_scientific_name"
	keyIsParent               = "is_parent"
	keyIsChild                = "is_child"
	keyHierarchyLevel         = "hierarchy_level"

	commonNamePrefix = "cname_"
)

// MarshalJSON encodes c in the flat form used by the taxonomy service.
func (c Candidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wireMap())
}

func (c Candidate) wireMap() map[string]interface{} {
	m := make(map[string]interface{}, 6+len(c.HierarchyFields)+len(c.CommonNameFields))
	m[keyID] = c.ID
	m[keyScientificName] = c.ScientificName
	m[keyRank] = string(c.Rank)
	if c.CommonName != "" {
		m[keyCommonName] = c.CommonName
	}
	if c.TaxonomicStatus != "" {
		m[keyTaxonomicStatus] = string(c.TaxonomicStatus)
	}
	if c.AcceptedScientificName != "" {
		m[keyAcceptedScientificName] = c.AcceptedScientificName
	}
	for r, v := range c.HierarchyFields {
		if v != "" {
			m[string(r)] = v
		}
	}
	for r, v := range c.CommonNameFields {
		if v != "" {
			m[commonNamePrefix+string(r)] = v
		}
	}
	return m
}

// UnmarshalJSON decodes the flat form.  A numeric id is kept as its decimal
// text.  "taxon_rank" is accepted when "rank" is absent.  Null and non-string
// values under rank keys are ignored.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return c.fromWire(raw)
}

func (c *Candidate) fromWire(raw map[string]json.RawMessage) error {
	*c = Candidate{}

	id, err := decodeID(raw[keyID])
	if err != nil {
		return err
	}
	c.ID = id
	c.ScientificName = decodeString(raw[keyScientificName])
	c.CommonName = decodeString(raw[keyCommonName])
	c.AcceptedScientificName = decodeString(raw[keyAcceptedScientificName])

	rank := decodeString(raw[keyRank])
	if rank == "" {
		rank = decodeString(raw[keyTaxonRank])
	}
	c.Rank, _ = ParseRank(rank)

	if s := decodeString(raw[keyTaxonomicStatus]); s != "" {
		c.TaxonomicStatus = ParseStatus(s)
	}

	for key, value := range raw {
		if strings.HasPrefix(key, commonNamePrefix) {
			r, ok := ParseRank(strings.TrimPrefix(key, commonNamePrefix))
			if !ok {
				continue
			}
			if v := decodeString(value); v != "" {
				if c.CommonNameFields == nil {
					c.CommonNameFields = make(map[Rank]string)
				}
				c.CommonNameFields[r] = v
			}
			continue
		}
		r, ok := ParseRank(key)
		if !ok {
			continue
		}
		if v := decodeString(value); v != "" {
			if c.HierarchyFields == nil {
				c.HierarchyFields = make(map[Rank]string)
			}
			c.HierarchyFields[r] = v
		}
	}
	return nil
}

func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("taxon: invalid id: %w", err)
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("taxon: id must be a string or number, got %s", raw)
	}
	return n.String(), nil
}

// MarshalJSON encodes the entry as its candidate plus the outline attributes.
func (e Entry) MarshalJSON() ([]byte, error) {
	m := e.Candidate.wireMap()
	m[keyIsParent] = e.IsParent
	m[keyIsChild] = e.IsChild
	m[keyHierarchyLevel] = e.HierarchyLevel
	return json.Marshal(m)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := e.Candidate.fromWire(raw); err != nil {
		return err
	}
	e.IsParent, e.IsChild, e.HierarchyLevel = false, false, 0
	if v, ok := raw[keyIsParent]; ok {
		if err := json.Unmarshal(v, &e.IsParent); err != nil {
			return fmt.Errorf("taxon: invalid %s: %w", keyIsParent, err)
		}
	}
	if v, ok := raw[keyIsChild]; ok {
		if err := json.Unmarshal(v, &e.IsChild); err != nil {
			return fmt.Errorf("taxon: invalid %s: %w", keyIsChild, err)
		}
	}
	if v, ok := raw[keyHierarchyLevel]; ok {
		if err := json.Unmarshal(v, &e.HierarchyLevel); err != nil {
			return fmt.Errorf("taxon: invalid %s: %w", keyHierarchyLevel, err)
		}
	}
	return nil
}

//Personal.AI order the ending
