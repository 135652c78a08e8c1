package services

import (
	"io"
	"log/slog"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/query"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSchemas() domain.SchemaRegistry {
	return domain.SchemaRegistry{
		Default: "0.0.8",
		Versions: []domain.SchemaVersion{
			{Version: "0.0.8"},
			{Version: "0.1.0", Supported: true},
		},
	}
}

func testCompiler() *query.Compiler {
	return query.NewCompiler(query.NewClassifier(domain.NewCategorySet(map[string][]string{
		"Synthetic Biology": {"synthetic biology", "plasmid"},
		"Genomics":          {"genome"},
	})))
}

func testDataset(brc, identifier string) *domain.Dataset {
	return &domain.Dataset{
		UID:           domain.DatasetUID(brc, identifier),
		SchemaVersion: "0.1.0",
		Document: map[string]any{
			"brc":        brc,
			"identifier": identifier,
			"title":      "Dataset " + identifier,
		},
	}
}
