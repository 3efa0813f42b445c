package replay

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Definitions maps packet-type and entity/method identifiers to names. It is
// a best-effort annotation layer: a missing or malformed table degrades
// labeling, never decoding.
type Definitions struct {
	// PacketTypes is keyed by hex string ("0x08"). Values are either a bare
	// name string or an object carrying at least an id/name field.
	PacketTypes map[string]json.RawMessage `json:"packetTypes"`
	// Entities is keyed by decimal entity id string.
	Entities map[string]EntityDef `json:"entities"`
}

type EntityDef struct {
	ID            uint32                 `json:"id"`
	Name          string                 `json:"name"`
	ClientMethods map[string]MethodDef   `json:"clientMethods"`
	CellMethods   map[string]MethodDef   `json:"cellMethods"`
	BaseMethods   map[string]MethodDef   `json:"baseMethods"`
	Properties    map[string]PropertyDef `json:"properties"`
}

type MethodDef struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

type PropertyDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewDefinitions returns an empty table.
func NewDefinitions() *Definitions {
	return &Definitions{
		PacketTypes: make(map[string]json.RawMessage),
		Entities:    make(map[string]EntityDef),
	}
}

// Empty reports whether the table carries no identifiers at all.
func (d *Definitions) Empty() bool {
	return len(d.PacketTypes) == 0 && len(d.Entities) == 0
}

// Merge overlays other onto d. Overlapping keys take other's value whole; no
// deep merge of entity contents.
func (d *Definitions) Merge(other *Definitions) {
	for k, v := range other.PacketTypes {
		d.PacketTypes[k] = v
	}
	for k, v := range other.Entities {
		d.Entities[k] = v
	}
}

// Known game-variant tags, matched as substrings of the version string.
var variantTags = []string{"wot_eu", "wot_na", "wot_asia", "wot_ru", "wot_cn"}

const defaultVariant = "wot_eu"

//go:embed all:ids
var embeddedIDs embed.FS

// Resolver builds the effective Definitions table for a game version.
// Dir optionally points at a directory of definition files which take
// precedence over the tables compiled into the binary.
type Resolver struct {
	Dir string
}

// Load resolves definitions for the given version string. Resolution is
// additive, later steps overwriting earlier keys:
//
//  1. pick a variant by substring-matching known tags in version, falling
//     back to wot_eu;
//  2. merge the variant's _default.json;
//  3. merge ids_<version>.json.
//
// Each table is looked up on disk first (when Dir is set), then among the
// embedded tables. Anything missing or malformed is skipped; Load never
// fails.
func (r Resolver) Load(version string) *Definitions {
	variant := defaultVariant
	for _, tag := range variantTags {
		if strings.Contains(version, tag) {
			variant = tag
			break
		}
	}

	defs := NewDefinitions()
	r.mergeTable(defs, filepath.Join(variant, "_default.json"))
	r.mergeTable(defs, "ids_"+version+".json")
	return defs
}

func (r Resolver) mergeTable(defs *Definitions, name string) {
	data, ok := r.readTable(name)
	if !ok {
		log.Debug().Str("table", name).Msg("definitions table not found")
		return
	}
	loaded := NewDefinitions()
	if err := json.Unmarshal(data, loaded); err != nil {
		log.Debug().Str("table", name).Err(err).Msg("skipping malformed definitions table")
		return
	}
	defs.Merge(loaded)
}

func (r Resolver) readTable(name string) ([]byte, bool) {
	if r.Dir != "" {
		if data, err := os.ReadFile(filepath.Join(r.Dir, name)); err == nil {
			return data, true
		}
	}
	if data, err := embeddedIDs.ReadFile("ids/" + filepath.ToSlash(name)); err == nil {
		return data, true
	}
	return nil, false
}
