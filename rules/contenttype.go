// Package rules defines the immutable Filter value that the matching engine
// consumes, along with the content-type bitmask, the tri-state third-party
// flag, and the domain/sitekey restrictions a filter may carry.
package rules

// ContentType is a bitmask over the fixed content-type universe a filter can
// be restricted to.  It mirrors the "resource types" and "special types" of
// the filter-list grammar (options such as $script, $image, $document).
type ContentType uint32

// Resource types: the kinds of sub-resource a network request can be.
const (
	TypeOther ContentType = 1 << iota
	TypeScript
	TypeImage
	TypeStylesheet
	TypeObject
	TypeSubdocument
	TypeXMLHTTPRequest
	TypeMedia
	TypeFont
	TypeWebSocket
	TypePing
)

// Special types: request-independent or whole-document qualifiers.  A subset
// of these (WHITELISTING_TYPES) only makes sense on a whitelist rule.
const (
	TypeDocument ContentType = 1 << (iota + 16)
	TypeElemhide
	TypeGenerichide
	TypeGenericblock
	TypeCSP
	TypePopup
)

// RESOURCE_TYPES is the union of all resource-type bits.
const RESOURCE_TYPES = TypeOther | TypeScript | TypeImage | TypeStylesheet |
	TypeObject | TypeSubdocument | TypeXMLHTTPRequest | TypeMedia | TypeFont |
	TypeWebSocket | TypePing

// SPECIAL_TYPES is the union of all non-resource bits.
const SPECIAL_TYPES = TypeDocument | TypeElemhide | TypeGenerichide |
	TypeGenericblock | TypeCSP | TypePopup

// WHITELISTING_TYPES is the subset of SPECIAL_TYPES that only makes sense on
// an exception (whitelist) filter.
const WHITELISTING_TYPES = TypeDocument | TypeElemhide | TypeGenerichide |
	TypeGenericblock

// contentTypeNames maps a filter-option name to its bit, used by both the
// option parser and ParseContentTypeName.
var contentTypeNames = map[string]ContentType{
	"other":          TypeOther,
	"script":         TypeScript,
	"image":          TypeImage,
	"stylesheet":     TypeStylesheet,
	"object":         TypeObject,
	"subdocument":    TypeSubdocument,
	"xmlhttprequest": TypeXMLHTTPRequest,
	"media":          TypeMedia,
	"font":           TypeFont,
	"websocket":      TypeWebSocket,
	"ping":           TypePing,
	"document":       TypeDocument,
	"elemhide":       TypeElemhide,
	"generichide":    TypeGenerichide,
	"genericblock":   TypeGenericblock,
	"csp":            TypeCSP,
	"popup":          TypePopup,
}

// ParseContentTypeName looks up the bit for a single filter-option type
// name (e.g. "script", "document"), the same table the option parser
// consults, exported for callers outside this package such as the demo
// CLI's manifest loader.
func ParseContentTypeName(name string) (ct ContentType, ok bool) {
	ct, ok = contentTypeNames[name]
	return ct, ok
}

// IsSingleSpecial reports whether mask has exactly one bit set within
// SPECIAL_TYPES and no other special bit.  Matcher does not call it: its
// dispatch is the simple/complex split of Filter.IsSimple.
func (mask ContentType) IsSingleSpecial() (ok bool) {
	special := mask & SPECIAL_TYPES
	return special != 0 && special&(special-1) == 0
}
