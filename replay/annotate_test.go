package replay

import (
	"encoding/json"
	"testing"
)

func annotationTable() *Definitions {
	d := NewDefinitions()
	d.PacketTypes["0x08"] = json.RawMessage(`{"id":"ENTITY_METHOD","name":"entity method call"}`)
	d.PacketTypes["0x16"] = json.RawMessage(`"VERSION_STRING"`)
	d.Entities["2"] = EntityDef{
		ID:   2,
		Name: "Vehicle",
		ClientMethods: map[string]MethodDef{
			"7": {Name: "showShooting", Args: []string{"UINT8", "UINT8"}},
		},
	}
	return d
}

func TestPacketTypeNameForms(t *testing.T) {
	d := annotationTable()
	if got := d.PacketTypeName(0x16); got != "VERSION_STRING" {
		t.Errorf("string form = %q", got)
	}
	if got := d.PacketTypeName(0x08); got != "ENTITY_METHOD" {
		t.Errorf("object form = %q", got)
	}
	if got := d.PacketTypeName(0xFE); got != "" {
		t.Errorf("unknown type = %q, want empty", got)
	}
}

func TestDescribeMethodCall(t *testing.T) {
	d := annotationTable()

	p := &Packet{Type: PacketTypeEntityMethod, Payload: []byte{2, 0, 0, 0, 7, 0, 0, 0, 1, 2}}
	if got := d.Describe(p); got != "ENTITY_METHOD :: Vehicle.showShooting" {
		t.Errorf("Describe = %q", got)
	}

	// Known entity, unknown method id.
	p = &Packet{Type: PacketTypeEntityMethod, Payload: []byte{2, 0, 0, 0, 99, 0, 0, 0}}
	if got := d.Describe(p); got != "ENTITY_METHOD :: Vehicle.Method[99]" {
		t.Errorf("Describe unknown method = %q", got)
	}

	// Unknown entity: only the type-level label remains.
	p = &Packet{Type: PacketTypeEntityMethod, Payload: []byte{9, 0, 0, 0, 1, 0, 0, 0}}
	if got := d.Describe(p); got != "ENTITY_METHOD" {
		t.Errorf("Describe unknown entity = %q", got)
	}

	// Payload too short to carry entity and method ids.
	p = &Packet{Type: PacketTypeEntityMethod, Payload: []byte{2, 0, 0}}
	if got := d.Describe(p); got != "ENTITY_METHOD" {
		t.Errorf("Describe short payload = %q", got)
	}
}

func TestDescribeUnknownEverything(t *testing.T) {
	d := NewDefinitions()
	p := &Packet{Type: 0x0A, Payload: []byte{1, 2, 3, 4}}
	if got := d.Describe(p); got != "" {
		t.Errorf("Describe with empty table = %q, want empty", got)
	}
}
