package pobdata

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/timeless-lut/tjlut/pkg/lut"
)

// Version of the LutData JSON layout
const Version = "1.0.0"

// NodeInfo describes a passive node that a jewel can transform
type NodeInfo struct {
	Index     int    `json:"index"`
	Size      uint32 `json:"size"`
	Name      string `json:"name,omitempty"`
	IsNotable bool   `json:"is_notable"`
}

// NodeModifier is a modifier a jewel can apply to a node
type NodeModifier struct {
	ID               string   `json:"id"`
	DisplayName      string   `json:"display_name"`
	StatDescriptions []string `json:"stat_descriptions"`
	SearchText       string   `json:"search_text"`
}

// LutData ties the decoded lookup tables to the passive tree metadata
type LutData struct {
	Version     string                  `json:"version"`
	NodeIndices map[uint32]NodeInfo     `json:"node_indices"`
	Modifiers   map[string]NodeModifier `json:"modifiers"`
	// ModifierOrder holds modifier ids in the order LegionPassives.lua lists them
	ModifierOrder []string       `json:"modifier_order,omitempty"`
	Jewels        *lut.Aggregate `json:"jewels"`
}

// FromPob builds LutData from the parsed Lua files. Jewels starts empty.
func FromPob(mapping *NodeIndexMapping, passives *LegionPassives) *LutData {
	data := &LutData{
		Version:     Version,
		NodeIndices: make(map[uint32]NodeInfo, len(mapping.Nodes)),
		Modifiers:   make(map[string]NodeModifier, len(passives.Additions)),
		Jewels:      lut.NewAggregate(),
	}

	for id, info := range mapping.Nodes {
		data.NodeIndices[id] = NodeInfo{
			Index:     info.Index,
			Size:      info.Size,
			IsNotable: info.Index < mapping.SizeNotable,
		}
	}

	for _, id := range passives.Order {
		addition := passives.Additions[id]
		sd := addition.StatDescriptions
		if sd == nil {
			sd = []string{}
		}
		data.Modifiers[id] = NodeModifier{
			ID:               id,
			DisplayName:      addition.DisplayName,
			StatDescriptions: sd,
			SearchText:       addition.SearchText(),
		}
		data.ModifierOrder = append(data.ModifierOrder, id)
	}

	return data
}

// Token returns the raw lookup table token for a node id
func (d *LutData) Token(jewel lut.Jewel, seed, nodeID uint32) (string, bool) {
	if d.Jewels == nil {
		return "", false
	}
	table, ok := d.Jewels.Get(jewel)
	if !ok {
		return "", false
	}
	node, ok := d.NodeIndices[nodeID]
	if !ok {
		return "", false
	}
	return table.Get(seed, node.Index)
}

// GetModifier resolves the modifier a jewel seed applies to a node id.
// A token names a modifier id directly or, for flat tables, the modifier's
// zero-based position in LegionPassives.lua.
func (d *LutData) GetModifier(jewel lut.Jewel, seed, nodeID uint32) (*NodeModifier, bool) {
	token, ok := d.Token(jewel, seed, nodeID)
	if !ok {
		return nil, false
	}
	return d.ResolveToken(token)
}

// ResolveToken returns the modifier a raw token refers to.
func (d *LutData) ResolveToken(token string) (*NodeModifier, bool) {
	if m, ok := d.Modifiers[token]; ok {
		return &m, true
	}
	pos, err := strconv.Atoi(token)
	if err != nil || pos < 0 || pos >= len(d.ModifierOrder) {
		return nil, false
	}
	m, ok := d.Modifiers[d.ModifierOrder[pos]]
	if !ok {
		return nil, false
	}
	return &m, true
}

// SaveJSON writes data as indented JSON
func SaveJSON(data *LutData, path string) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal lut data: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads LutData written by SaveJSON
func LoadJSON(path string) (*LutData, error) {
	in, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data := &LutData{Jewels: lut.NewAggregate()}
	if err := json.Unmarshal(in, data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if data.Jewels == nil {
		data.Jewels = lut.NewAggregate()
	}
	return data, nil
}
