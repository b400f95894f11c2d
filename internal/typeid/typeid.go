package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixDocument = "doc"
	PrefixAgent    = "agent"
	PrefixAbility  = "abil"
	PrefixDrawing  = "draw"
	PrefixLibrary  = "lib"
	PrefixSession  = "sess"
	PrefixAsset    = "asset"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewDocumentID() string { return New(PrefixDocument) }
func NewAgentID() string    { return New(PrefixAgent) }
func NewAbilityID() string  { return New(PrefixAbility) }
func NewDrawingID() string  { return New(PrefixDrawing) }
func NewLibraryID() string  { return New(PrefixLibrary) }
func NewSessionID() string  { return New(PrefixSession) }
func NewAssetID() string    { return New(PrefixAsset) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
