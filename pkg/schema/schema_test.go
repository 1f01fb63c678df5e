package schema

import (
	"strings"
	"testing"
)

func TestDefault_EventCategoryHasNoEventLabel(t *testing.T) {
	d := Default()

	if d.HasLabel("Event") {
		t.Fatal("Event must not exist as a concrete label")
	}

	members := d.CategoryMembers("Event")
	if len(members) != 3 {
		t.Fatalf("expected 3 event labels, got %d", len(members))
	}
	for _, m := range members {
		if !d.HasLabel(m) {
			t.Fatalf("event member %q is not a known label", m)
		}
	}
}

func TestDefault_RelationshipEndpointsAreKnownLabels(t *testing.T) {
	d := Default()

	for _, r := range d.Relationships {
		for _, l := range append(append([]string{}, r.Sources...), r.Targets...) {
			if !d.HasLabel(l) {
				t.Fatalf("relationship %s references unknown label %q", r.Type, l)
			}
		}
	}
}

func TestDefault_SensorLocationsAreLabels(t *testing.T) {
	d := Default()

	if !d.HasLabel(d.SensorBaseLabel) {
		t.Fatalf("sensor base label %q missing from labels", d.SensorBaseLabel)
	}
	for _, loc := range d.SensorLocations {
		if !d.HasLabel(loc) {
			t.Fatalf("sensor location %q missing from labels", loc)
		}
	}
}

func TestRelationship_Lookup(t *testing.T) {
	d := Default()

	r, ok := d.Relationship("ASSOCIATEDWITH")
	if !ok {
		t.Fatal("ASSOCIATEDWITH not found")
	}
	if len(r.Sources) != 1 || r.Sources[0] != "Rider" {
		t.Fatalf("unexpected sources: %v", r.Sources)
	}
	if len(r.Targets) != 1 || r.Targets[0] != "Horse" {
		t.Fatalf("unexpected targets: %v", r.Targets)
	}

	if _, ok := d.Relationship("RIDES"); ok {
		t.Fatal("unknown relationship type should not resolve")
	}
}

func TestDisplayName(t *testing.T) {
	d := Default()

	tests := []struct {
		id   string
		want string
	}{
		{"Horse1", "Dakota"},
		{"Rider_Emma", "Emma"},
		{"FatigueDetection", "détection de fatigue"},
		{"Unknown_ID", "Unknown_ID"},
	}
	for _, tt := range tests {
		if got := d.DisplayName(tt.id); got != tt.want {
			t.Fatalf("DisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRuleText_ContainsStructuralRules(t *testing.T) {
	d := Default()
	rules := d.RuleText()

	for _, fragment := range []string{
		"Il n'existe PAS de label \"Event\"",
		"(Rider)-[:ASSOCIATEDWITH]->(Horse)",
		"(InertialSensors)-[:ISATTACHEDTO]->(Horse)",
		"JAMAIS UNION",
		"COLONNES DUPLIQUÉES",
		"hasSensorTime",
		"backticks",
	} {
		if !strings.Contains(rules, fragment) {
			t.Fatalf("rule text missing %q", fragment)
		}
	}
}

func TestRuleText_ListsEveryRelationshipDirection(t *testing.T) {
	d := Default()
	rules := d.RuleText()

	for _, r := range d.Relationships {
		arrow := "-[:" + r.Type + "]->"
		if !strings.Contains(rules, arrow) {
			t.Fatalf("rule text missing direction for %s", r.Type)
		}
	}
}

func TestAliasText_ListsEveryAlias(t *testing.T) {
	d := Default()
	text := d.AliasText()

	for _, a := range d.Aliases {
		if !strings.Contains(text, a.ID) || !strings.Contains(text, a.Display) {
			t.Fatalf("alias text missing %s = %s", a.ID, a.Display)
		}
	}
}

func TestIntrospection_Render(t *testing.T) {
	intro := &Introspection{
		Labels:            []string{"Horse", "Rider"},
		RelationshipTypes: []string{"ASSOCIATEDWITH"},
		Properties: map[string][]string{
			"Horse": {"id", "hasName"},
			"Rider": {"id"},
		},
	}

	out := intro.Render()
	if !strings.Contains(out, "Horse, Rider") {
		t.Fatalf("render missing labels: %q", out)
	}
	if !strings.Contains(out, "ASSOCIATEDWITH") {
		t.Fatalf("render missing relationship types: %q", out)
	}
	if !strings.Contains(out, "Horse: id, hasName") {
		t.Fatalf("render missing properties: %q", out)
	}
}
