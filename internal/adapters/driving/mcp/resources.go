package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for ragline resources.
	uriScheme = "ragline://"

	knownIDsURI = uriScheme + "known-ids"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         knownIDsURI,
		Name:        "known-ids",
		Description: "Identities of every chunk already embedded",
		MIMEType:    "application/json",
	}, s.handleKnownIDsResource)
}

// handleKnownIDsResource returns the sorted known identities.
func (s *Server) handleKnownIDsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ids := []string{}
	if s.ports.Index != nil {
		known, err := s.ports.Index.KnownIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing known ids: %w", err)
		}
		if known != nil {
			ids = known
		}
	}

	data, err := json.MarshalIndent(struct {
		Count int      `json:"count"`
		IDs   []string `json:"ids"`
	}{Count: len(ids), IDs: ids}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling known ids: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
