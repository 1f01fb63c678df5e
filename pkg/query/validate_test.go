package query

import (
	"strings"
	"testing"

	"github.com/equilab/cavale/pkg/schema"
)

// Representative queries covering the question families the system
// serves. None of them should trip the validator.
var validQueries = []string{
	`MATCH (h:Horse) RETURN h.id, h.hasName`,
	`MATCH (r:Rider) RETURN r.id`,
	`MATCH (r:Rider)-[:ASSOCIATEDWITH]->(h:Horse) RETURN r.id, h.hasName`,
	`MATCH (r:Rider)-[:ASSOCIATEDWITH]->(h:Horse {hasName: "Dakota"}) RETURN r.id`,
	`MATCH (s:InertialSensors)-[:ISATTACHEDTO]->(h:Horse) RETURN s.id, h.hasName, labels(s)`,
	`MATCH (s:InertialSensors:Withers)-[:ISATTACHEDTO]->(h:Horse) RETURN s.id, h.hasName`,
	`MATCH (s:InertialSensors)-[:ISUSEDFOR]->(eo:ExperimentalObjective) RETURN s.id, eo.id`,
	`MATCH (s:InertialSensors)-[:ISUSEDFOR]->(eo:ExperimentalObjective {id: "FatigueDetection"}) RETURN s.id, labels(s)`,
	`MATCH (s:InertialSensors) RETURN s.id, s.hasSensorTime ORDER BY s.hasSensorTime DESC LIMIT 1`,
	`MATCH (h:Horse)-[:TRAINSIN]->(t) WHERE (t:PreparationStage OR t:CompetitionStage) RETURN h.hasName, t.id`,
	`MATCH (h:Horse {hasName: "Naya"})-[:TRAINSIN]->(t:PreparationStage) RETURN t.id`,
	`MATCH (t:CompetitionStage)-[:DEPENDSON]->(e:ShowJumping) RETURN t.id, e.id`,
	`MATCH (t:PreparationStage)-[:INVOLVESACTOR]->(a:Veterinarian) RETURN t.id, a.id`,
	`MATCH (e:Dressage)-[:INSEASON]->(cs:CompetitiveSeason {seasonName: "Saison 2026"}) RETURN e.id, e.eventDate`,
	`MATCH (e) WHERE (e:ShowJumping OR e:Dressage OR e:Cross) RETURN e.id, e.eventLocation, e.eventDate`,
	`MATCH (e:ShowJumping)-[:HASPARTICIPATION]->(p:EventParticipation) RETURN e.id, p.rank`,
	`MATCH (p:EventParticipation)-[:HASHORSE]->(h:Horse) RETURN p.id, h.hasName`,
	`MATCH (p:EventParticipation)-[:HASRIDER]->(r:Rider) RETURN p.id, r.id`,
	`MATCH (h:Horse) OPTIONAL MATCH (s:InertialSensors)-[:ISATTACHEDTO]->(h) RETURN h.hasName, COUNT(DISTINCT s) AS capteurs`,
	`MATCH (eo:ExperimentalObjective) OPTIONAL MATCH (s:InertialSensors)-[:ISUSEDFOR]->(eo) RETURN eo.id AS objectif, COLLECT(s.id) AS capteurs, COLLECT(labels(s)[1]) AS parties_corps`,
	`MATCH (h:Horse {hasName: "Dakota"})-[:TRAINSIN]->(training) WHERE (training:PreparationStage OR training:CompetitionStage) MATCH (training)-[:DEPENDSON]->(e) WHERE (e:ShowJumping OR e:Dressage OR e:Cross) WITH e, COUNT(DISTINCT training) AS stages WHERE stages >= 2 RETURN e.id, e.eventDate`,
	`MATCH (e:Cross) RETURN e.id, e.category, e.eventDate ORDER BY e.eventDate ASC`,
	`MATCH (s:Withers)-[:ISATTACHEDTO]->(h:Horse) RETURN s.id, h.hasName`,
	`MATCH (s:Sternum)-[:ISUSEDFOR]->(eo:ExperimentalObjective) RETURN s.id, eo.id`,
}

func TestValidate_AcceptsRepresentativeQueries(t *testing.T) {
	d := schema.Default()
	for _, q := range validQueries {
		if violations := Validate(q, d); len(violations) != 0 {
			t.Fatalf("query flagged unexpectedly:\n%s\n%v", q, violations)
		}
	}
}

func TestValidate_RejectsUnion(t *testing.T) {
	d := schema.Default()
	q := `MATCH (e:ShowJumping) RETURN e.id UNION MATCH (e:Dressage) RETURN e.id`
	assertViolation(t, Validate(q, d), "no-union")
}

func TestValidate_RejectsBackticks(t *testing.T) {
	d := schema.Default()
	q := "MATCH (t:`PreparationStage`) RETURN t.id"
	assertViolation(t, Validate(q, d), "no-backticks")
}

func TestValidate_RejectsEventLabel(t *testing.T) {
	d := schema.Default()
	q := `MATCH (e:Event) WHERE e.id = "Event_SJ_01" RETURN e.id`
	assertViolation(t, Validate(q, d), "no-event-label")

	// EventParticipation is a real label and must not be confused with
	// the forbidden Event category.
	q = `MATCH (p:EventParticipation) RETURN p.id, p.rank`
	if violations := Validate(q, d); len(violations) != 0 {
		t.Fatalf("EventParticipation flagged: %v", violations)
	}
}

func TestValidate_RejectsMutations(t *testing.T) {
	d := schema.Default()
	for _, q := range []string{
		`CREATE (h:Horse {id: "Horse3"})`,
		`MATCH (h:Horse) SET h.hasName = "X" RETURN h.id`,
		`MATCH (h:Horse) DETACH DELETE h`,
	} {
		assertViolation(t, Validate(q, d), "read-only")
	}
}

func TestValidate_RejectsDuplicateColumns(t *testing.T) {
	d := schema.Default()

	for _, q := range []string{
		`MATCH (e:ShowJumping) RETURN e.id, e.eventDate, e.id`,
		`MATCH (e:ShowJumping) RETURN e.id AS x, e.eventDate AS x`,
	} {
		assertViolation(t, Validate(q, d), "no-duplicate-columns")
	}

	// Aliasing gives the second projection a distinct output name.
	q := `MATCH (e:ShowJumping) RETURN e.id, e.id AS identifiant`
	if violations := Validate(q, d); len(violations) != 0 {
		t.Fatalf("aliased projection flagged: %v", violations)
	}
}

func TestValidate_SensorLocationLabelStandsInForBase(t *testing.T) {
	d := schema.Default()

	for _, loc := range d.SensorLocations {
		q := `MATCH (s:` + loc + `)-[:ISATTACHEDTO]->(h:Horse) RETURN s.id, h.hasName`
		if violations := Validate(q, d); len(violations) != 0 {
			t.Fatalf("location label %s flagged: %v", loc, violations)
		}
	}

	// A location label still cannot stand where no sensor is allowed.
	q := `MATCH (w:Withers)-[:ASSOCIATEDWITH]->(h:Horse) RETURN w.id, h.hasName`
	assertViolation(t, Validate(q, d), "relationship-direction")
}

func TestValidate_RejectsReversedDirection(t *testing.T) {
	d := schema.Default()
	for _, q := range []string{
		`MATCH (h:Horse)-[:ASSOCIATEDWITH]->(r:Rider) RETURN h.hasName, r.id`,
		`MATCH (h:Horse)-[:ISATTACHEDTO]->(s:InertialSensors) RETURN h.hasName, s.id`,
		`MATCH (s:InertialSensors)<-[:ISUSEDFOR]-(eo:ExperimentalObjective) RETURN s.id, eo.id`,
	} {
		assertViolation(t, Validate(q, d), "relationship-direction")
	}

	// The same pattern written right-to-left with a left arrow is fine.
	q := `MATCH (h:Horse)<-[:ASSOCIATEDWITH]-(r:Rider) RETURN h.hasName, r.id`
	if violations := Validate(q, d); len(violations) != 0 {
		t.Fatalf("left-arrow form flagged: %v", violations)
	}
}

func TestValidate_RequiresIdentifierWithDerivedProps(t *testing.T) {
	d := schema.Default()
	q := `MATCH (e:Dressage) RETURN e.eventDate`
	assertViolation(t, Validate(q, d), "identifier-required")

	q = `MATCH (e:Dressage) RETURN e.id, e.eventDate`
	if violations := Validate(q, d); len(violations) != 0 {
		t.Fatalf("identified projection flagged: %v", violations)
	}
}

func assertViolation(t *testing.T, violations []Violation, rule string) {
	t.Helper()
	for _, v := range violations {
		if v.Rule == rule {
			return
		}
	}
	var got []string
	for _, v := range violations {
		got = append(got, v.String())
	}
	t.Fatalf("expected violation %q, got [%s]", rule, strings.Join(got, "; "))
}
