package mcpadapter

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/campuscare/support-triage/internal/core/domain"
	"github.com/campuscare/support-triage/internal/core/ports"
)

// Server exposes the triage router and facility validator over the Model
// Context Protocol so agent runtimes can call them as tools.
type Server struct {
	catalog   *domain.Catalog
	router    ports.RequestRouter
	validator ports.FacilityValidator
	mcpServer *server.MCPServer
}

func NewServer(
	catalog *domain.Catalog,
	router ports.RequestRouter,
	validator ports.FacilityValidator,
) *Server {
	s := &Server{
		catalog:   catalog,
		router:    router,
		validator: validator,
	}

	s.mcpServer = server.NewMCPServer(
		"support-triage",
		"1.0.0",
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// MCPServer returns the underlying server for transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving the stdio transport until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func formatCatalog(catalog *domain.Catalog) string {
	var result strings.Builder
	result.WriteString("# Category Catalog\n\n")
	result.WriteString(fmt.Sprintf("%d categories total\n", catalog.Size()))

	sections := []struct {
		branch domain.Branch
		title  string
	}{
		{domain.BranchGroup3, "Affordable Care (group3)"},
		{domain.BranchGroup4, "Local Events (group4)"},
		{domain.BranchOther, "Out of Scope (other)"},
	}
	for _, section := range sections {
		categories := catalog.Categories(section.branch)
		result.WriteString(fmt.Sprintf("\n## %s\n", section.title))
		result.WriteString(fmt.Sprintf("%d categories\n\n", len(categories)))
		for _, category := range categories {
			line := fmt.Sprintf("- %s", category)
			if level := catalog.CareLevel(category); level != "" {
				line += fmt.Sprintf(" (%s)", level)
			}
			result.WriteString(line + "\n")
		}
	}

	return result.String()
}
