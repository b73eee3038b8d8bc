package mcpadapter

import (
	"strings"
	"testing"

	"github.com/campuscare/support-triage/internal/core/domain"
	"github.com/campuscare/support-triage/internal/core/usecase"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	catalog, err := domain.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}
	return NewServer(
		catalog,
		usecase.NewRouter(catalog, usecase.DefaultRouterConfig()),
		usecase.NewValidator(usecase.DefaultValidatorConfig()),
	)
}

func TestServerRegistersCapabilities(t *testing.T) {
	s := newTestServer(t)
	if s.MCPServer() == nil {
		t.Fatalf("expected underlying MCP server")
	}
}

func TestFormatCatalogListsAllBranches(t *testing.T) {
	catalog, err := domain.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}

	text := formatCatalog(catalog)
	for _, want := range []string{
		"56 categories total",
		"Affordable Care (group3)",
		"Local Events (group4)",
		"Out of Scope (other)",
		"- Mental health (MODERATE)",
		"- Crisis counseling (URGENT)",
		"- Peer support",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("catalog resource missing %q:\n%s", want, text)
		}
	}
}
