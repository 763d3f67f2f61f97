package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAttributeStringType(t *testing.T) {
	meta, err := ParseAttribute(json.RawMessage(`{
		"type": "string",
		"required": true,
		"description": "The unique name of the thing"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if !meta.Required || !meta.IsString() {
		t.Errorf("got %+v", meta)
	}
}

func TestParseAttributeListType(t *testing.T) {
	meta, err := ParseAttribute(json.RawMessage(`{"type": ["list", "string"], "optional": true}`))
	if err != nil {
		t.Fatal(err)
	}
	if meta.IsString() {
		t.Error("list type should not report as string")
	}
	if !meta.Optional {
		t.Error("optional lost in parse")
	}
}

func TestParseAttributeMalformed(t *testing.T) {
	if _, err := ParseAttribute(json.RawMessage(`"just a string"`)); !errors.Is(err, ErrBadAttribute) {
		t.Fatalf("expected ErrBadAttribute, got %v", err)
	}
}

func TestBaseScore(t *testing.T) {
	tests := []struct {
		name string
		meta AttributeMetadata
		want float64
	}{
		{"bare", AttributeMetadata{}, 30},
		{"required", AttributeMetadata{Required: true}, 45},
		{"computed", AttributeMetadata{Computed: true}, 40},
		{"required string", AttributeMetadata{Required: true, Type: "string"}, 50},
		{"unique description", AttributeMetadata{Description: "A unique value"}, 38},
		{"id description", AttributeMetadata{Description: "resource id"}, 35},
		{"name description", AttributeMetadata{Description: "The display name"}, 35},
		{
			"all bonuses",
			AttributeMetadata{Required: true, Computed: true, Type: "string", Description: "unique identifier"},
			68,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.BaseScore(); got != tt.want {
				t.Errorf("BaseScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPotentialID(t *testing.T) {
	tests := []struct {
		name string
		meta AttributeMetadata
		want bool
	}{
		{"required string", AttributeMetadata{Required: true, Type: "string"}, true},
		{"computed string", AttributeMetadata{Computed: true, Type: "string"}, true},
		{"optional only string", AttributeMetadata{Optional: true, Type: "string"}, false},
		{"required number", AttributeMetadata{Required: true, Type: "number"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.PotentialID(); got != tt.want {
				t.Errorf("PotentialID() = %v, want %v", got, tt.want)
			}
		})
	}
}
