package graph

import (
	"context"
	"sort"

	"github.com/equilab/cavale/pkg/schema"
)

// Introspect queries the store's own catalog and returns the labels,
// relationship types, and per-label properties actually present. The
// result feeds the live-schema section of the query prompt so that the
// model only ever sees structure that exists.
func (c *Client) Introspect(ctx context.Context) (*schema.Introspection, error) {
	intro := &schema.Introspection{
		Properties: make(map[string][]string),
	}

	labels, err := c.Execute(ctx, "CALL db.labels() YIELD label RETURN label ORDER BY label")
	if err != nil {
		return nil, err
	}
	for _, record := range labels {
		if l, ok := record.Values["label"].(string); ok {
			intro.Labels = append(intro.Labels, l)
		}
	}

	relTypes, err := c.Execute(ctx,
		"CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType ORDER BY relationshipType")
	if err != nil {
		return nil, err
	}
	for _, record := range relTypes {
		if t, ok := record.Values["relationshipType"].(string); ok {
			intro.RelationshipTypes = append(intro.RelationshipTypes, t)
		}
	}

	props, err := c.Execute(ctx,
		"CALL db.schema.nodeTypeProperties() YIELD nodeLabels, propertyName RETURN nodeLabels, propertyName")
	if err != nil {
		return nil, err
	}
	for _, record := range props {
		name, ok := record.Values["propertyName"].(string)
		if !ok || name == "" {
			continue
		}
		nodeLabels, ok := record.Values["nodeLabels"].([]any)
		if !ok {
			continue
		}
		for _, nl := range nodeLabels {
			label, ok := nl.(string)
			if !ok {
				continue
			}
			if !contains(intro.Properties[label], name) {
				intro.Properties[label] = append(intro.Properties[label], name)
			}
		}
	}
	for label := range intro.Properties {
		sort.Strings(intro.Properties[label])
	}

	return intro, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
