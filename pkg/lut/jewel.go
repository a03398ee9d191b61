package lut

import (
	"fmt"
	"strings"
)

// Jewel is a timeless jewel type
type Jewel uint8

const (
	LethalPride Jewel = iota + 1
	BrutalRestraint
	GloriousVanity
	ElegantHubris
	MilitantFaith
)

func (j Jewel) String() string {
	switch j {
	case LethalPride:
		return "LethalPride"
	case BrutalRestraint:
		return "BrutalRestraint"
	case GloriousVanity:
		return "GloriousVanity"
	case ElegantHubris:
		return "ElegantHubris"
	case MilitantFaith:
		return "MilitantFaith"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(j))
	}
}

// DisplayName returns the in-game name of the jewel (e.g. "Lethal Pride")
func (j Jewel) DisplayName() string {
	switch j {
	case LethalPride:
		return "Lethal Pride"
	case BrutalRestraint:
		return "Brutal Restraint"
	case GloriousVanity:
		return "Glorious Vanity"
	case ElegantHubris:
		return "Elegant Hubris"
	case MilitantFaith:
		return "Militant Faith"
	default:
		return j.String()
	}
}

// MarshalText implements encoding.TextMarshaler so a Jewel can key JSON objects.
func (j Jewel) MarshalText() ([]byte, error) {
	if _, ok := formats[j]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownJewel, uint8(j))
	}
	return []byte(j.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (j *Jewel) UnmarshalText(text []byte) error {
	v, err := Lookup(string(text))
	if err != nil {
		return err
	}
	*j = v
	return nil
}

// Lookup returns the jewel for either its type name ("LethalPride") or display name ("Lethal Pride").
func Lookup(name string) (Jewel, error) {
	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name))
	for _, j := range Jewels() {
		if strings.ToLower(j.String()) == key {
			return j, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownJewel, name)
}

// Jewels returns every known jewel type in a stable order
func Jewels() []Jewel {
	return []Jewel{
		LethalPride,
		BrutalRestraint,
		GloriousVanity,
		ElegantHubris,
		MilitantFaith,
	}
}

// Names returns the type names of every known jewel
func Names() []string {
	var names []string
	for _, j := range Jewels() {
		names = append(names, j.String())
	}
	return names
}
