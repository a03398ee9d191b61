package pobdata

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/Shopify/go-lua"
)

// evalFile runs a Lua data file and converts either its return value or, when
// global is set, the named global it assigns into plain Go values.
func evalFile(path, global string) (any, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if global != "" {
		state.Global(global)
		if state.TypeOf(-1) != lua.TypeNil {
			defer state.Pop(2)
			return luaToGo(state, -1), nil
		}
		state.Pop(1)
	}
	defer state.Pop(1)
	return luaToGo(state, -1), nil
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns []any for sequences (1..n) and map[string]any otherwise;
// numeric keys of maps are stringified.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		switch state.TypeOf(-2) {
		case lua.TypeString:
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		case lua.TypeNumber:
			// ToString would convert the key in place and break Next
			if key, ok := state.ToNumber(-2); ok {
				output[formatNumber(key)] = luaToGo(state, -1)
			}
		}
		state.Pop(1)
	}
	return output
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}

func formatNumber(value float64) string {
	if math.Mod(value, 1) == 0 {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// field helpers for the converted tables

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		// a sequence is a map keyed 1..n
		m := make(map[string]any, len(t))
		for i, item := range t {
			m[strconv.Itoa(i+1)] = item
		}
		return m, true
	default:
		return nil, false
	}
}

func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		// sparse or empty tables come back as maps; order by numeric key
		var keys []int
		for k := range t {
			if n, err := strconv.Atoi(k); err == nil {
				keys = append(keys, n)
			}
		}
		sort.Ints(keys)
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, t[strconv.Itoa(k)])
		}
		return out
	default:
		return nil
	}
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	default:
		return "", false
	}
}
