package pathstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/regprofiler/internal/extract"
)

const profilesPrefix = "profiles"

// ProfileMeta describes a published rule set.
type ProfileMeta struct {
	DocID       string    `json:"doc_id"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	ContentHash string    `json:"content_hash"`
	Rules       int       `json:"rules"`
	Reviewed    bool      `json:"reviewed"`
	PublishedAt time.Time `json:"published_at"`
}

// Profile is a rule set and its metadata.
type Profile struct {
	Meta  ProfileMeta
	Rules []extract.Rule
}

// PublishProfile writes the rule set to profiles/<doc_id>/rules, then its
// metadata to profiles/<doc_id>/meta. The metadata is written last so a
// listed profile always has rules.
func (c *Client) PublishProfile(ctx context.Context, p Profile) error {
	if p.Meta.DocID == "" {
		return fmt.Errorf("publish profile: empty doc id")
	}
	base := profilesPrefix + "/" + p.Meta.DocID
	source := "regprofiler:" + p.Meta.DocID

	rules := p.Rules
	if rules == nil {
		rules = []extract.Rule{}
	}
	if err := c.PutNode(ctx, base+"/rules", NodeRequest{
		Value:     rules,
		MergeMode: "replace",
		Source:    source,
	}); err != nil {
		return fmt.Errorf("publish rules: %w", err)
	}

	meta := p.Meta
	meta.Rules = len(p.Rules)
	if meta.PublishedAt.IsZero() {
		meta.PublishedAt = time.Now().UTC()
	}
	if err := c.PutNode(ctx, base+"/meta", NodeRequest{
		Value:     meta,
		MergeMode: "replace",
		Source:    source,
	}); err != nil {
		return fmt.Errorf("publish meta: %w", err)
	}
	return nil
}

// GetProfileRules returns the published rules of a document, or nil when
// nothing is published under docID.
func (c *Client) GetProfileRules(ctx context.Context, docID string) ([]extract.Rule, error) {
	node, err := c.GetNode(ctx, profilesPrefix+"/"+docID+"/rules")
	if err != nil || node == nil {
		return nil, err
	}
	var rules []extract.Rule
	if err := json.Unmarshal(node.Value, &rules); err != nil {
		return nil, fmt.Errorf("decode rules %s: %w", docID, err)
	}
	return rules, nil
}

// ListProfiles returns the metadata of published profiles, newest first.
func (c *Client) ListProfiles(ctx context.Context, limit int) ([]ProfileMeta, error) {
	nodes, err := c.ListChildren(ctx, profilesPrefix, 0)
	if err != nil {
		return nil, err
	}
	var out []ProfileMeta
	for _, n := range nodes {
		if !strings.HasSuffix(n.Key, ".meta") && !strings.HasSuffix(n.Key, "/meta") {
			continue
		}
		var m ProfileMeta
		if err := json.Unmarshal(n.Value, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteProfile removes a published profile and its rules.
func (c *Client) DeleteProfile(ctx context.Context, docID string) error {
	return c.DeleteNode(ctx, profilesPrefix+"/"+docID, true)
}
