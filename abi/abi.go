// Package abi validates the plugin-facing surface a host consults
// before trusting a game or engine manifest: identifier naming rules
// and API version compatibility. It does not discover or load
// plugins (shared-library lookup is a host transport concern, out of
// scope here); it only validates manifests the host already has in
// hand.
package abi

import (
	"regexp"

	"github.com/go-surena/surena/engine"
	"github.com/go-surena/surena/game"
	"github.com/go-surena/surena/internal/errcode"
)

// GameAPIVersion and EngineAPIVersion are this module's supported API
// surface, matching original_source's SURENA_GAME_API_VERSION (21)
// and SURENA_ENGINE_API_VERSION (2).
const (
	GameAPIVersion   uint64 = 21
	EngineAPIVersion uint64 = 2
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*[A-Za-z0-9]$|^[A-Za-z0-9]$`)

// ValidateIdentifier enforces the shared game/engine/variant/impl
// naming rule: alphanumeric, internal '_'/'-' allowed, first and last
// character always alphanumeric, single characters allowed.
func ValidateIdentifier(s string) error {
	if !identifierPattern.MatchString(s) {
		return errcode.Newf(errcode.InvalidInput, "invalid identifier %q", s)
	}
	return nil
}

// CheckAPIVersion rejects a manifest whose provided version doesn't
// match what this host supports, before any methods are queried.
func CheckAPIVersion(provided, supported uint64) error {
	if provided != supported {
		return errcode.Newf(errcode.InvalidInput, "unsupported API version %d, want %d", provided, supported)
	}
	return nil
}

// GameManifest is the Go stand-in for the two well-known C plugin
// symbols plugin_get_game_capi_version/plugin_get_game_methods: a
// version tag plus a function returning every game.Methods the
// plugin provides.
type GameManifest struct {
	APIVersion uint64
	Methods    func() []*game.Methods
}

// EngineManifest is GameManifest's engine-side counterpart.
type EngineManifest struct {
	APIVersion uint64
	Methods    func() []*engine.Methods
}

// ValidateGameManifest checks the manifest's API version and the
// identifier of every game.Methods it provides, returning the first
// error found.
func ValidateGameManifest(m GameManifest) error {
	if err := CheckAPIVersion(m.APIVersion, GameAPIVersion); err != nil {
		return err
	}
	if m.Methods == nil {
		return errcode.New(errcode.InvalidInput)
	}
	for _, meth := range m.Methods() {
		if meth == nil {
			return errcode.New(errcode.InvalidInput)
		}
		if err := ValidateIdentifier(meth.GameName); err != nil {
			return err
		}
		if meth.VariantName != "" {
			if err := ValidateIdentifier(meth.VariantName); err != nil {
				return err
			}
		}
		if err := ValidateIdentifier(meth.ImplName); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngineManifest is ValidateGameManifest's engine-side
// counterpart.
func ValidateEngineManifest(m EngineManifest) error {
	if err := CheckAPIVersion(m.APIVersion, EngineAPIVersion); err != nil {
		return err
	}
	if m.Methods == nil {
		return errcode.New(errcode.InvalidInput)
	}
	for _, meth := range m.Methods() {
		if meth == nil {
			return errcode.New(errcode.InvalidInput)
		}
		if err := ValidateIdentifier(meth.Name); err != nil {
			return err
		}
	}
	return nil
}
