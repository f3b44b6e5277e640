// Package graph reads admin rights and linked discussion chats from an
// optional Neo4j graph.
//
// Graph shape:
//
//	(:Viewer)-[:ADMIN_OF {rights: [..]}]->(:Chat {peer_id})
//	(:Chat)-[:LINKED_TO]->(:Chat)
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"chatprofile/internal/peer"
)

// Neo4jClient implements GraphClient for Neo4j.
type Neo4jClient struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jClient connects and verifies connectivity.
func NewNeo4jClient(uri, username, password, dbName string) (*Neo4jClient, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jClient{driver: driver, dbName: dbName}, nil
}

func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Reset deletes all data in the graph.
func (c *Neo4jClient) Reset(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	})
	return err
}

// Capabilities returns the rights the viewer holds on a chat, plus
// linked_chat when the chat has a linked discussion.
func (c *Neo4jClient) Capabilities(ctx context.Context, peerID int64) (peer.Capabilities, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName, AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	res, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rec, err := tx.Run(ctx, capabilitiesQuery, map[string]any{"peer_id": peerID})
		if err != nil {
			return nil, err
		}
		records, err := rec.Collect(ctx)
		if err != nil {
			return nil, err
		}
		caps := peer.Capabilities{}
		for _, r := range records {
			rights, _, _ := neo4j.GetRecordValue[[]any](r, "rights")
			linked, _, _ := neo4j.GetRecordValue[bool](r, "linked")
			for cp := range rightsToCapabilities(rights, linked) {
				caps[cp] = true
			}
		}
		return caps, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graph capabilities for %d: %w", peerID, err)
	}
	return res.(peer.Capabilities), nil
}

// LinkedChat returns the discussion chat linked to a channel.
func (c *Neo4jClient) LinkedChat(ctx context.Context, peerID int64) (int64, bool, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName, AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	res, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rec, err := tx.Run(ctx, linkedChatQuery, map[string]any{"peer_id": peerID})
		if err != nil {
			return nil, err
		}
		records, err := rec.Collect(ctx)
		if err != nil || len(records) == 0 {
			return int64(0), err
		}
		id, _, err := neo4j.GetRecordValue[int64](records[0], "linked_id")
		return id, err
	})
	if err != nil {
		return 0, false, fmt.Errorf("linked chat for %d: %w", peerID, err)
	}
	id := res.(int64)
	return id, id != 0, nil
}

// GrantAdmin records the viewer's rights on a chat. It is used to seed a
// demo graph.
func (c *Neo4jClient) GrantAdmin(ctx context.Context, peerID int64, title string, caps []peer.Capability) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	rights := make([]string, 0, len(caps))
	for _, cp := range caps {
		rights = append(rights, string(cp))
	}
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, grantAdminQuery, map[string]any{
			"peer_id": peerID,
			"title":   title,
			"rights":  rights,
		})
	})
	return err
}

// Link records that a channel has a linked discussion chat.
func (c *Neo4jClient) Link(ctx context.Context, channelID, chatID int64) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, linkQuery, map[string]any{"channel_id": channelID, "chat_id": chatID})
	})
	return err
}

// rightsToCapabilities keeps the rights that name a known capability.
func rightsToCapabilities(rights []any, linked bool) peer.Capabilities {
	caps := peer.Capabilities{}
	for _, r := range rights {
		s, ok := r.(string)
		if !ok {
			continue
		}
		if c, err := peer.ParseCapability(s); err == nil {
			caps[c] = true
		}
	}
	if linked {
		caps[peer.CapLinkedChat] = true
	}
	return caps
}
