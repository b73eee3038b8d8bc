package mcpadapter

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	catalogResource := mcp.NewResource("catalog://branches",
		"Category catalog",
		mcp.WithMIMEType("text/markdown"),
		mcp.WithResourceDescription("All routable categories grouped by handling branch with care levels"),
	)
	s.mcpServer.AddResource(catalogResource, s.handleCatalogResource)
}

func (s *Server) handleCatalogResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "catalog://branches",
			MIMEType: "text/markdown",
			Text:     formatCatalog(s.catalog),
		},
	}, nil
}
