package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultContentType is assumed when the backend omits content_type.
const DefaultContentType = "Video"

// ContentLink is a single piece of tier content.
type ContentLink struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ContentType  string `json:"content_type"`
	Locked       bool   `json:"locked"`
	AddedAt      string `json:"added_at"`
	UpdatedAt    string `json:"updated_at"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Type returns the content type, falling back to DefaultContentType.
func (l ContentLink) Type() string {
	if l.ContentType == "" {
		return DefaultContentType
	}
	return l.ContentType
}

// TierGroup is one tier's links.
type TierGroup struct {
	Name  string
	Links []ContentLink
}

// TierContent is the backend's {tierName: [links]} object with key order preserved.
type TierContent []TierGroup

func (tc *TierContent) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*tc = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tier content: expected object, got %v", tok)
	}
	groups := TierContent{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)
		var links []ContentLink
		if err := dec.Decode(&links); err != nil {
			return fmt.Errorf("tier content %q: %w", name, err)
		}
		groups = append(groups, TierGroup{Name: name, Links: links})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*tc = groups
	return nil
}

// Links returns the links of the named tier, or nil.
func (tc TierContent) Links(name string) []ContentLink {
	for _, g := range tc {
		if g.Name == name {
			return g.Links
		}
	}
	return nil
}
