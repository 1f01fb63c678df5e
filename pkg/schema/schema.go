// Package schema holds the static description of the equestrian knowledge
// graph: node labels, relationship directions, category expansions, and
// entity aliases. The descriptor is built once at startup and shared
// read-only across requests; the query synthesizer compiles it into
// prompt rule text, and the static query validator checks generated
// queries against the same tables.
package schema

import (
	"sort"
)

// Relationship describes a relationship type with its fixed direction.
// Sources and Targets are the label classes allowed at each end; the
// direction is always Sources → Targets and must never be reversed.
type Relationship struct {
	Type    string
	Sources []string
	Targets []string
	Note    string
}

// Category maps a generic category name that does NOT exist as a label in
// the graph to the concrete labels that implement it. Queries must expand
// the category to a disjunction over its members.
type Category struct {
	Name    string
	Members []string
}

// Alias maps a graph identifier to its natural-language display name.
type Alias struct {
	ID      string
	Display string
}

// Descriptor is the full static schema description. It is immutable after
// construction; build it with Default and pass it by reference.
type Descriptor struct {
	Labels []string

	// Sensor nodes always carry two labels: the base label plus a second
	// label naming the mounting body part. The body part is extracted by
	// excluding the base label from the node's label set.
	SensorBaseLabel string
	SensorLocations []string

	Relationships []Relationship
	Categories    []Category
	Aliases       []Alias

	// IdentifierProps are the properties that identify an entity. Every
	// projection must include at least one of them per selected entity.
	IdentifierProps []string
}

// Default returns the descriptor for the equestrian training graph.
// It is versioned with the graph schema: when the dataset changes shape,
// this table changes with it.
func Default() *Descriptor {
	return &Descriptor{
		Labels: []string{
			"Horse", "Rider", "Veterinarian", "Caretaker",
			"InertialSensors", "Withers", "Sternum", "CanonOfForelimb", "CanonOfHindlimb",
			"ShowJumping", "Dressage", "Cross",
			"PreparationStage", "PreCompetitionStage", "CompetitionStage", "TransitionStage",
			"ExperimentalObjective", "CompetitiveSeason", "EventParticipation",
		},

		SensorBaseLabel: "InertialSensors",
		SensorLocations: []string{"Withers", "Sternum", "CanonOfForelimb", "CanonOfHindlimb"},

		Relationships: []Relationship{
			{
				Type:    "ASSOCIATEDWITH",
				Sources: []string{"Rider"},
				Targets: []string{"Horse"},
			},
			{
				Type:    "ISATTACHEDTO",
				Sources: []string{"InertialSensors"},
				Targets: []string{"Horse"},
				Note:    "les capteurs InertialSensors ont TOUJOURS 2 labels - le 2ème indique la partie du corps",
			},
			{
				Type:    "ISUSEDFOR",
				Sources: []string{"InertialSensors"},
				Targets: []string{"ExperimentalObjective"},
				Note:    "pour l'objectif expérimental d'un capteur, utilise SEULEMENT cette relation (pas TRAINSIN)",
			},
			{
				Type:    "TRAINSIN",
				Sources: []string{"Horse"},
				Targets: []string{"PreparationStage", "PreCompetitionStage", "CompetitionStage", "TransitionStage"},
			},
			{
				Type:    "DEPENDSON",
				Sources: []string{"PreparationStage", "PreCompetitionStage", "CompetitionStage", "TransitionStage"},
				Targets: []string{"ShowJumping", "Dressage", "Cross"},
			},
			{
				Type:    "INVOLVESACTOR",
				Sources: []string{"PreparationStage", "PreCompetitionStage", "CompetitionStage", "TransitionStage"},
				Targets: []string{"Rider", "Veterinarian", "Caretaker"},
			},
			{
				Type:    "INSEASON",
				Sources: []string{"ShowJumping", "Dressage", "Cross"},
				Targets: []string{"CompetitiveSeason"},
				Note:    `seasonName = "Saison 2026" (pas "2026")`,
			},
			{
				Type:    "HASPARTICIPATION",
				Sources: []string{"ShowJumping", "Dressage", "Cross"},
				Targets: []string{"EventParticipation"},
				Note:    "EventParticipation porte la propriété 'rank' pour le classement",
			},
			{
				Type:    "HASHORSE",
				Sources: []string{"EventParticipation"},
				Targets: []string{"Horse"},
			},
			{
				Type:    "HASRIDER",
				Sources: []string{"EventParticipation"},
				Targets: []string{"Rider"},
			},
		},

		Categories: []Category{
			{Name: "Event", Members: []string{"ShowJumping", "Dressage", "Cross"}},
			{Name: "TrainingStage", Members: []string{"PreparationStage", "PreCompetitionStage", "CompetitionStage", "TransitionStage"}},
			{Name: "Actor", Members: []string{"Rider", "Veterinarian", "Caretaker"}},
		},

		Aliases: []Alias{
			{ID: "Horse1", Display: "Dakota"},
			{ID: "Horse2", Display: "Naya"},
			{ID: "Rider_Emma", Display: "Emma"},
			{ID: "Rider_Leo", Display: "Leo"},
			{ID: "Rider_Manon", Display: "Manon"},
			{ID: "Vet_DrMartin", Display: "Dr Martin (vétérinaire)"},
			{ID: "Caretaker_Sophie", Display: "Sophie (soigneuse)"},
			{ID: "IMU_Withers_01", Display: "capteur au garrot"},
			{ID: "IMU_Sternum_01", Display: "capteur au sternum"},
			{ID: "GaitClassif_01", Display: "classification des allures"},
			{ID: "FatigueDetection", Display: "détection de fatigue"},
		},

		IdentifierProps: []string{"id", "hasName"},
	}
}

// HasLabel reports whether label exists in the graph schema.
func (d *Descriptor) HasLabel(label string) bool {
	for _, l := range d.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Relationship returns the relationship table entry for the given type.
func (d *Descriptor) Relationship(relType string) (Relationship, bool) {
	for _, r := range d.Relationships {
		if r.Type == relType {
			return r, true
		}
	}
	return Relationship{}, false
}

// CategoryMembers returns the concrete labels behind a category name,
// or nil when the name is not a known category.
func (d *Descriptor) CategoryMembers(name string) []string {
	for _, c := range d.Categories {
		if c.Name == name {
			return c.Members
		}
	}
	return nil
}

// DisplayName returns the natural-language name for a graph identifier,
// or the identifier itself when no alias is known.
func (d *Descriptor) DisplayName(id string) string {
	for _, a := range d.Aliases {
		if a.ID == id {
			return a.Display
		}
	}
	return id
}

// IsIdentifierProp reports whether prop identifies an entity (as opposed
// to being a derived property).
func (d *Descriptor) IsIdentifierProp(prop string) bool {
	for _, p := range d.IdentifierProps {
		if p == prop {
			return true
		}
	}
	return false
}

// Introspection holds the live structure of the store, refreshed at
// synthesizer initialization. It complements the static descriptor: the
// descriptor knows the modeling rules, the introspection knows what is
// actually present.
type Introspection struct {
	Labels            []string
	RelationshipTypes []string
	Properties        map[string][]string
}

// SortedPropertyLabels returns the introspected labels that have
// properties, in stable order.
func (i *Introspection) SortedPropertyLabels() []string {
	labels := make([]string, 0, len(i.Properties))
	for label := range i.Properties {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
