package replay

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PacketTypeName returns the human-readable name for a packet type, or ""
// when the table has no entry. Table values are either a bare string or an
// object with id/name fields, both forms appear in shipped tables.
func (d *Definitions) PacketTypeName(packetType uint32) string {
	raw, ok := d.PacketTypes[fmt.Sprintf("0x%02X", packetType)]
	if !ok {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var obj struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.ID != "" {
			return obj.ID
		}
		return obj.Name
	}
	return ""
}

// MethodName resolves an entity method call to "EntityName.methodName".
// Replays record client-side calls, so clientMethods is consulted; an entity
// hit with an unknown method id falls back to "EntityName.Method[id]".
// Returns "" when the entity itself is unknown.
func (d *Definitions) MethodName(entityID, methodID uint32) string {
	ent, ok := d.Entities[strconv.FormatUint(uint64(entityID), 10)]
	if !ok {
		return ""
	}
	if m, ok := ent.ClientMethods[strconv.FormatUint(uint64(methodID), 10)]; ok {
		return ent.Name + "." + m.Name
	}
	return fmt.Sprintf("%s.Method[%d]", ent.Name, methodID)
}

// Describe builds the annotation label for one packet: the packet-type name,
// plus the resolved entity method for method-call packets. Empty when the
// table knows nothing about the packet.
func (d *Definitions) Describe(p *Packet) string {
	desc := d.PacketTypeName(p.Type)
	if p.Type == PacketTypeEntityMethod {
		entityID, ok := p.EntityID()
		if !ok {
			return desc
		}
		methodID, _ := p.MethodID()
		if m := d.MethodName(entityID, methodID); m != "" {
			if desc != "" {
				return desc + " :: " + m
			}
			return m
		}
	}
	return desc
}
