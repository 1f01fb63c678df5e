package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/equilab/cavale/pkg/schema"
)

// Violation is a single static rule broken by a generated query.
type Violation struct {
	Rule   string
	Detail string
}

func (v Violation) String() string {
	return v.Rule + ": " + v.Detail
}

var (
	unionRe     = regexp.MustCompile(`(?i)\bUNION\b`)
	mutationRe  = regexp.MustCompile(`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP)\b`)
	eventRe     = regexp.MustCompile(`:\s*Event\b`)
	returnRe    = regexp.MustCompile(`(?is)\bRETURN\b(.*?)(\bORDER\s+BY\b|\bLIMIT\b|\bSKIP\b|$)`)
	propertyRe  = regexp.MustCompile(`\b([a-zA-Z_]\w*)\.([a-zA-Z_]\w*)\b`)
	relationRe  = regexp.MustCompile(`\(\s*\w*\s*:` + "`?" + `(\w+)` + "`?" + `[^)]*\)\s*(<-|-)\s*\[\s*\w*\s*:(\w+)\s*[^\]]*\]\s*(->|-)\s*\(\s*\w*\s*:` + "`?" + `(\w+)` + "`?" + `[^)]*\)`)
)

// Validate checks a generated query against the schema descriptor. It
// never executes anything; it catches the structural mistakes the model
// is known to make so they can be rejected before the store sees them.
// A nil slice means the query passed every check.
func Validate(cypher string, d *schema.Descriptor) []Violation {
	var violations []Violation

	if unionRe.MatchString(cypher) {
		violations = append(violations, Violation{
			Rule:   "no-union",
			Detail: "UNION is forbidden, use a single MATCH",
		})
	}

	if strings.Contains(cypher, "`") {
		violations = append(violations, Violation{
			Rule:   "no-backticks",
			Detail: "backticked labels are forbidden",
		})
	}

	if m := mutationRe.FindString(cypher); m != "" {
		violations = append(violations, Violation{
			Rule:   "read-only",
			Detail: fmt.Sprintf("mutation clause %s is forbidden", strings.ToUpper(m)),
		})
	}

	if eventRe.MatchString(cypher) {
		members := d.CategoryMembers("Event")
		violations = append(violations, Violation{
			Rule:   "no-event-label",
			Detail: fmt.Sprintf("label Event does not exist, use %s", strings.Join(members, "|")),
		})
	}

	violations = append(violations, checkDirections(cypher, d)...)
	violations = append(violations, checkReturn(cypher, d)...)

	return violations
}

// checkDirections verifies every fully labeled relationship pattern
// against the descriptor's direction table. Patterns with an unlabeled
// endpoint or an unknown relationship type are skipped; the store will
// judge those.
func checkDirections(cypher string, d *schema.Descriptor) []Violation {
	var violations []Violation

	for _, m := range relationRe.FindAllStringSubmatch(cypher, -1) {
		leftLabel, leftArrow, relType, rightArrow, rightLabel := m[1], m[2], m[3], m[4], m[5]

		rel, ok := d.Relationship(relType)
		if !ok {
			continue
		}

		var source, target string
		switch {
		case rightArrow == "->":
			source, target = leftLabel, rightLabel
		case leftArrow == "<-":
			source, target = rightLabel, leftLabel
		default:
			// Undirected pattern, nothing to check.
			continue
		}

		if !endpointAllowed(rel.Sources, source, d) || !endpointAllowed(rel.Targets, target, d) {
			violations = append(violations, Violation{
				Rule: "relationship-direction",
				Detail: fmt.Sprintf("%s must go (%s)-[:%s]->(%s), got (%s)->(%s)",
					relType, strings.Join(rel.Sources, "|"), relType,
					strings.Join(rel.Targets, "|"), source, target),
			})
		}
	}

	return violations
}

// checkReturn enforces the projection rules: no duplicate columns, and
// a projection of derived properties must also carry an identifier so
// the answer can name what it describes.
func checkReturn(cypher string, d *schema.Descriptor) []Violation {
	m := returnRe.FindStringSubmatch(cypher)
	if m == nil {
		return nil
	}
	clause := m[1]

	var violations []Violation

	seen := make(map[string]bool)
	for _, item := range splitReturnItems(clause) {
		name := strings.ToLower(strings.TrimSpace(item))
		// The store keys columns by output name: the alias when one is
		// given, the expression text otherwise.
		if idx := strings.LastIndex(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[idx+4:])
		}
		if name == "" {
			continue
		}
		if seen[name] {
			violations = append(violations, Violation{
				Rule:   "no-duplicate-columns",
				Detail: fmt.Sprintf("column %q appears more than once", name),
			})
		}
		seen[name] = true
	}

	hasIdentifier := false
	hasDerived := false
	for _, pm := range propertyRe.FindAllStringSubmatch(clause, -1) {
		if d.IsIdentifierProp(pm[2]) {
			hasIdentifier = true
		} else {
			hasDerived = true
		}
	}
	if hasDerived && !hasIdentifier {
		violations = append(violations, Violation{
			Rule:   "identifier-required",
			Detail: "projection returns derived properties without id or hasName",
		})
	}

	return violations
}

// endpointAllowed reports whether label may stand at this end of the
// relationship. Sensor nodes always carry a body-part label next to
// the base sensor label, so a location label stands in wherever the
// base label is allowed.
func endpointAllowed(allowed []string, label string, d *schema.Descriptor) bool {
	if contains(allowed, label) {
		return true
	}
	if contains(allowed, d.SensorBaseLabel) {
		return contains(d.SensorLocations, label)
	}
	return false
}

// splitReturnItems splits a RETURN clause on top-level commas, leaving
// commas inside function calls like COLLECT(...) alone.
func splitReturnItems(clause string) []string {
	var items []string
	depth := 0
	start := 0
	for i, r := range clause {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, clause[start:i])
				start = i + 1
			}
		}
	}
	items = append(items, clause[start:])
	return items
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
