package main

import (
	"log"
	"os"

	mcpadapter "github.com/campuscare/support-triage/internal/adapters/mcp"
	"github.com/campuscare/support-triage/internal/bootstrap"
	"github.com/campuscare/support-triage/internal/config"
	"github.com/campuscare/support-triage/internal/core/domain"
	"github.com/campuscare/support-triage/internal/core/usecase"
)

// The MCP entrypoint serves tools over stdio and needs no database or queue,
// so it wires the core use cases directly instead of going through bootstrap.
func main() {
	cfg := config.Load()

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	router := usecase.NewRouter(catalog, usecase.RouterConfig{
		LowConfidence:      cfg.RouterLowConfidence,
		CriticalConfidence: cfg.RouterCriticalConfidence,
	})
	validator := usecase.NewValidator(bootstrap.ValidatorConfigFrom(cfg))

	server := mcpadapter.NewServer(catalog, router, validator)
	if err := server.ServeStdio(); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}

func loadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return domain.LoadCatalog(data)
}
