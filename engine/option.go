package engine

import "strings"

// OptionType names the shape of an engine-tunable option, mirroring
// original_source's EE_OPTION_TYPE enum (check/spin/combo/button/
// string/spind). Here an OptionSpind carries an int64 default computed
// by SpindDefault rather than a fixed value.
type OptionType uint32

const (
	OptionCheck OptionType = iota
	OptionSpin
	OptionCombo
	OptionButton
	OptionString
	OptionSpind
)

// Option describes one tunable an engine.Searcher exposes through
// DefaultOptions. Only the fields relevant to Type are meaningful, the
// same "valid iff the right tag" discipline as Event's payload
// pointers.
type Option struct {
	Name string
	Type OptionType

	CheckDefault bool

	SpinDefault int64
	SpinMin     int64
	SpinMax     int64

	ComboDefault  string
	ComboVariants []string

	StringDefault string

	// SpindDefault, when Type is OptionSpind, is computed by the
	// Searcher from the currently loaded game rather than fixed at
	// registration time (e.g. a default search depth that scales with
	// board size).
	SpindDefault func(loaded bool) int64
}

// NewComboOption builds an OptionCombo from a default and its
// newline-joined variant list the way original_source's
// eoptions_add_combo does, except taking variants as a slice instead
// of a single delimited string.
func NewComboOption(name, def string, variants []string) Option {
	return Option{Name: name, Type: OptionCombo, ComboDefault: def, ComboVariants: variants}
}

// Variants splits a newline-joined combo variant blob, the wire shape
// SPEC_FULL.md's supplemented combo-option support uses when an
// Option crosses a serialize boundary.
func Variants(blob string) []string {
	if blob == "" {
		return nil
	}
	return strings.Split(blob, "\n")
}

// JoinVariants is Variants' inverse.
func JoinVariants(variants []string) string {
	return strings.Join(variants, "\n")
}
