package cmd

import (
	"context"
	"fmt"

	"chatprofile/internal/collector"
	"chatprofile/internal/config"
	"chatprofile/internal/database/graph"
	"chatprofile/internal/database/relational"
	"chatprofile/internal/logger"
)

// stack is the storage and collection layer every command shares.
type stack struct {
	db        *relational.DuckDBClient
	repo      *relational.Repo
	graph     graph.GraphClient
	collector *collector.Collector

	graphOwned bool
}

// openStack opens the DuckDB file, migrates it and connects the optional
// graph. The collector answers counts from the store; capabilities come
// from the store and the graph together.
func openStack(ctx context.Context, cfg config.Config) (*stack, error) {
	db, err := relational.NewFileDB(cfg.Database.DuckDBPath)
	if err != nil {
		return nil, err
	}
	repo := relational.NewRepo(db.DB())
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	g, err := graph.Open(cfg.Database.Neo4jURI, cfg.Database.Neo4jUser, cfg.Database.Neo4jPassword, cfg.Database.Neo4jDatabase)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("graph: %w", err)
	}

	caps := collector.Union{Primary: repo, Extra: []collector.CapabilitySource{g}, Logger: logger.Component("capabilities")}
	col := collector.New(repo, caps, cfg.CollectorConfig(), logger.Component("collector"))
	return &stack{db: db, repo: repo, graph: g, collector: col}, nil
}

// handOverGraph marks the graph as closed by someone else, the refresh
// worker in practice.
func (s *stack) handOverGraph() graph.GraphClient {
	s.graphOwned = true
	return s.graph
}

func (s *stack) Close() {
	if !s.graphOwned {
		if err := s.graph.Close(context.Background()); err != nil {
			logger.Component("cmd").Warn("graph close failed", "error", err)
		}
	}
	if err := s.db.Close(); err != nil {
		logger.Component("cmd").Warn("duckdb close failed", "error", err)
	}
}
