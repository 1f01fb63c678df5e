package schema

import (
	"fmt"
	"strings"
)

// RuleText compiles the descriptor into the fixed rule block embedded in
// every query-generation prompt. The wording follows the dataset's
// curation notes (in French, like the questions the system receives);
// the structural content comes from the descriptor tables so that each
// rule stays testable on its own.
func (d *Descriptor) RuleText() string {
	var b strings.Builder

	events := d.CategoryMembers("Event")
	eventDisjunction := labelDisjunction("e", events)

	b.WriteString("RÈGLE #1 - LABELS D'ÉVÉNEMENTS (TRÈS IMPORTANT):\n")
	b.WriteString("Il n'existe PAS de label \"Event\" dans ce graphe !\n")
	fmt.Fprintf(&b, "Les événements utilisent UNIQUEMENT: %s\n\n", strings.Join(events, ", "))
	b.WriteString("INVALIDE ❌: MATCH (e:Event) WHERE e.id = \"Event_SJ_01\"\n")
	fmt.Fprintf(&b, "VALIDE ✓: MATCH (e) WHERE (%s) AND e.id = \"Event_SJ_01\"\n", eventDisjunction)
	fmt.Fprintf(&b, "VALIDE ✓: MATCH (e:%s) WHERE e.id = \"Event_SJ_01\"\n\n", events[0])

	b.WriteString("Instructions CRITIQUES - DIRECTIONS DES RELATIONS (NE JAMAIS INVERSER!):\n")
	for _, r := range d.Relationships {
		fmt.Fprintf(&b, "- %s: (%s)-[:%s]->(%s)\n",
			r.Type, strings.Join(r.Sources, "|"), r.Type, strings.Join(r.Targets, "|"))
		fmt.Fprintf(&b, "  Exemple: MATCH (a:%s)-[:%s]->(b:%s)\n", r.Sources[0], r.Type, r.Targets[0])
		if r.Note != "" {
			fmt.Fprintf(&b, "  Note: %s\n", r.Note)
		}
	}
	b.WriteString("\n")

	stages := d.CategoryMembers("TrainingStage")
	fmt.Fprintf(&b, "Pour les étapes d'entraînement, utilise (training) sans label spécifique, puis WHERE avec parenthèses:\n")
	fmt.Fprintf(&b, "  Exemple CORRECT: WHERE (%s)\n", labelDisjunction("training", stages))
	b.WriteString("  N'utilise JAMAIS de backticks pour les labels!\n\n")

	fmt.Fprintf(&b, "Les capteurs %s portent toujours un 2ème label indiquant la partie du corps: %s.\n",
		d.SensorBaseLabel, strings.Join(d.SensorLocations, ", "))
	b.WriteString("Pour obtenir la partie du corps d'un capteur, utilise labels(s) qui retourne par exemple ['InertialSensors', 'Withers'].\n\n")

	b.WriteString("PROPRIÉTÉS IMPORTANTES:\n")
	b.WriteString("- Événements: id, category (pas categoryName!), eventLocation, eventDate\n")
	b.WriteString("- Fréquence d'échantillonnage = hasSensorTime (ex: \"200Hz\", \"250Hz\")\n")
	b.WriteString("- Pour MAX/MIN fréquence → ORDER BY s.hasSensorTime DESC/ASC LIMIT 1\n")
	b.WriteString("- Classement = propriété 'rank' sur EventParticipation\n")
	b.WriteString("- Capteurs: utilise 'id' (ex: \"IMU_Withers_01\") PAS 'hasSensorID' qui contient des codes différents\n")
	b.WriteString("- ExperimentalObjective: utilise la propriété 'id' (valeurs: 'GaitClassif_01', 'FatigueDetection') - PAS l'uri\n")
	b.WriteString("- CHEVAUX ont 'hasName' (Dakota, Naya) - CAVALIERS n'ont QUE 'id' (Rider_Emma, Rider_Leo, Rider_Manon)\n\n")

	b.WriteString("SYNTAXE:\n")
	b.WriteString("- Pour \"Tous les X ont-ils Y?\" → MATCH (x:X) OPTIONAL MATCH (y:Y)-[relation]->(x)\n")
	b.WriteString("- Pour COUNT → utilise COUNT(DISTINCT variable)\n")
	b.WriteString("- Retourne 'id' et 'hasName' (JAMAIS 'uri')\n")
	b.WriteString("- RÈGLE CRITIQUE RETURN: retourne TOUJOURS l'identifiant (id ou hasName) avec TOUTES les propriétés demandées\n")
	b.WriteString("  Exemple INVALIDE: RETURN e.eventDate ❌\n")
	b.WriteString("  Exemple VALIDE: RETURN e.id, e.eventDate ✓\n")
	b.WriteString("- JAMAIS DE COLONNES DUPLIQUÉES dans RETURN - chaque propriété ne doit apparaître qu'UNE SEULE FOIS\n")
	b.WriteString("- N'utilise JAMAIS UNION - préfère une seule requête MATCH\n")
	b.WriteString("- Pour GROUPER par objectif → utilise COLLECT() avec le nom de l'objectif\n")
	b.WriteString("  Exemple: RETURN eo.id as objectif, COLLECT(s.id) as capteurs, COLLECT(labels(s)[1]) as parties_corps\n")
	b.WriteString("- IMPORTANT: ne mélange PAS plusieurs sujets dans une seule requête.\n")
	b.WriteString("  Si la question mélange des sujets, réponds UNIQUEMENT au sujet principal avec une seule requête cohérente.\n")
	b.WriteString("- Pour trouver un événement COMMUN à plusieurs étapes → chaîne Horse → TRAINSIN → étapes → DEPENDSON → événement,\n")
	b.WriteString("  avec WITH ... COUNT(DISTINCT training) >= 2 sur la variable de traversée partagée (pas de MATCH déconnectés)\n")
	b.WriteString("- Garde la requête simple et directe - réponds UNIQUEMENT à ce qui est demandé\n")

	return b.String()
}

// AliasText renders the identifier-to-display-name table for the answer
// prompt.
func (d *Descriptor) AliasText() string {
	var b strings.Builder
	for _, a := range d.Aliases {
		fmt.Fprintf(&b, "- %s = %s\n", a.ID, a.Display)
	}
	return b.String()
}

// Render produces the live-schema section of the query-generation prompt.
func (i *Introspection) Render() string {
	var b strings.Builder

	b.WriteString("Labels présents: ")
	b.WriteString(strings.Join(i.Labels, ", "))
	b.WriteString("\n")

	b.WriteString("Types de relations présents: ")
	b.WriteString(strings.Join(i.RelationshipTypes, ", "))
	b.WriteString("\n")

	if len(i.Properties) > 0 {
		b.WriteString("Propriétés par label:\n")
		for _, label := range i.SortedPropertyLabels() {
			fmt.Fprintf(&b, "- %s: %s\n", label, strings.Join(i.Properties[label], ", "))
		}
	}

	return b.String()
}

func labelDisjunction(variable string, labels []string) string {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, variable+":"+l)
	}
	return strings.Join(parts, " OR ")
}
