package pobdata

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	NodeIndexMappingFile = "NodeIndexMapping.lua"
	LegionPassivesFile   = "LegionPassives.lua"
)

var ErrMissingField = errors.New("missing field")

// NodeMappingInfo is the position of a passive node in the lookup tables
type NodeMappingInfo struct {
	Index int
	Size  uint32
}

// NodeIndexMapping is the parsed contents of NodeIndexMapping.lua
type NodeIndexMapping struct {
	Size        int
	SizeNotable int
	Nodes       map[uint32]NodeMappingInfo
}

// PassiveAddition is one entry of LegionPassives.lua's additions list
type PassiveAddition struct {
	ID               string
	DisplayName      string
	StatDescriptions []string
}

// LegionPassives is the parsed contents of LegionPassives.lua
type LegionPassives struct {
	Additions map[string]PassiveAddition
	// Order holds addition ids in file order
	Order []string
}

// ParseNodeIndexMapping parses the nodeIDList table of NodeIndexMapping.lua
func ParseNodeIndexMapping(path string) (*NodeIndexMapping, error) {
	v, err := evalFile(path, "nodeIDList")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	list, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("%s: %w: nodeIDList", path, ErrMissingField)
	}

	mapping := &NodeIndexMapping{Nodes: make(map[uint32]NodeMappingInfo)}
	if mapping.Size, ok = asInt(list["size"]); !ok {
		return nil, fmt.Errorf("%s: %w: size", path, ErrMissingField)
	}
	if mapping.SizeNotable, ok = asInt(list["sizeNotable"]); !ok {
		return nil, fmt.Errorf("%s: %w: sizeNotable", path, ErrMissingField)
	}

	for key, value := range list {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			continue // size, sizeNotable
		}
		info, ok := asMap(value)
		if !ok {
			continue
		}
		index, ok := asInt(info["index"])
		if !ok {
			return nil, fmt.Errorf("%s: node %d: %w: index", path, id, ErrMissingField)
		}
		size, ok := asInt(info["size"])
		if !ok {
			return nil, fmt.Errorf("%s: node %d: %w: size", path, id, ErrMissingField)
		}
		mapping.Nodes[uint32(id)] = NodeMappingInfo{Index: index, Size: uint32(size)}
	}

	return mapping, nil
}

// NodeIDs returns the mapped node ids ordered by their table index
func (m *NodeIndexMapping) NodeIDs() []uint32 {
	ids := make([]uint32, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return m.Nodes[ids[i]].Index < m.Nodes[ids[j]].Index })
	return ids
}

// ParseLegionPassives parses the additions list returned by LegionPassives.lua
func ParseLegionPassives(path string) (*LegionPassives, error) {
	v, err := evalFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("%s: expected a table to be returned", path)
	}
	additions, ok := data["additions"]
	if !ok {
		return nil, fmt.Errorf("%s: %w: additions", path, ErrMissingField)
	}

	passives := &LegionPassives{Additions: make(map[string]PassiveAddition)}
	for i, item := range asList(additions) {
		entry, ok := asMap(item)
		if !ok {
			return nil, fmt.Errorf("%s: addition %d is not a table", path, i+1)
		}
		id, ok := asString(entry["id"])
		if !ok {
			return nil, fmt.Errorf("%s: addition %d: %w: id", path, i+1, ErrMissingField)
		}
		dn, ok := asString(entry["dn"])
		if !ok {
			return nil, fmt.Errorf("%s: addition %s: %w: dn", path, id, ErrMissingField)
		}
		var sd []string
		for _, s := range asList(entry["sd"]) {
			if desc, ok := asString(s); ok {
				sd = append(sd, desc)
			}
		}
		passives.Additions[id] = PassiveAddition{
			ID:               id,
			DisplayName:      dn,
			StatDescriptions: sd,
		}
		passives.Order = append(passives.Order, id)
	}

	return passives, nil
}

// SearchText is the lower-cased display name and stat descriptions
func (a PassiveAddition) SearchText() string {
	return strings.ToLower(strings.TrimSpace(a.DisplayName + " " + strings.Join(a.StatDescriptions, " ")))
}
