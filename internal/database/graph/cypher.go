package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const capabilitiesQuery = `
	MATCH (c:Chat {peer_id: $peer_id})
	OPTIONAL MATCH (:Viewer)-[a:ADMIN_OF]->(c)
	OPTIONAL MATCH (c)-[:LINKED_TO]->(d:Chat)
	RETURN coalesce(a.rights, []) AS rights, d IS NOT NULL AS linked
`

const linkedChatQuery = `
	MATCH (:Chat {peer_id: $peer_id})-[:LINKED_TO]->(d:Chat)
	RETURN d.peer_id AS linked_id
	LIMIT 1
`

const grantAdminQuery = `
	MERGE (v:Viewer {id: 'me'})
	MERGE (c:Chat {peer_id: $peer_id})
	SET c.title = $title
	MERGE (v)-[a:ADMIN_OF]->(c)
	SET a.rights = $rights
`

const linkQuery = `
	MERGE (c:Chat {peer_id: $channel_id})
	MERGE (d:Chat {peer_id: $chat_id})
	MERGE (c)-[:LINKED_TO]->(d)
`

// ExecuteCypher runs a read-only Cypher query and returns the rows as maps.
func (c *Neo4jClient) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName, AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		results := []map[string]any{}
		for _, record := range records {
			row := make(map[string]any, len(record.Keys))
			for i, key := range record.Keys {
				row[key] = convertNeo4jValue(record.Values[i])
			}
			results = append(results, row)
		}
		return results, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cypher execution failed: %w", err)
	}
	return result.([]map[string]any), nil
}

// convertNeo4jValue turns driver types into JSON-friendly values.
func convertNeo4jValue(val any) any {
	switch v := val.(type) {
	case neo4j.Node:
		return map[string]any{
			"labels":     v.Labels,
			"properties": v.Props,
			"id":         v.ElementId,
		}
	case neo4j.Relationship:
		return map[string]any{
			"type":       v.Type,
			"properties": v.Props,
			"start":      v.StartElementId,
			"end":        v.EndElementId,
		}
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = convertNeo4jValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = convertNeo4jValue(item)
		}
		return out
	default:
		return v
	}
}
