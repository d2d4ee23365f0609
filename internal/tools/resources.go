package tools

import (
	"context"

	"github.com/toolbridge/toolbridge/internal/config"
)

// HealthResource reports liveness of the service.
func HealthResource() Resource {
	return Resource{
		URI:         "/health",
		Description: "Service health status",
		Fetch: func(ctx context.Context) (map[string]interface{}, error) {
			return map[string]interface{}{
				"status":  "healthy",
				"message": "Service is running",
			}, nil
		},
	}
}

// InfoResource describes the service: identity comes from the manifest,
// tool and resource listings from the registries. Listings are built at
// fetch time so the document always matches what is actually dispatchable.
func InfoResource(m *config.Manifest, tools *Registry, resources *ResourceRegistry) Resource {
	return Resource{
		URI:         "/info",
		Description: "Service metadata and tool catalog",
		Fetch: func(ctx context.Context) (map[string]interface{}, error) {
			return map[string]interface{}{
				"name":        m.Name,
				"version":     m.Version,
				"description": m.Description,
				"tools":       tools.Descriptors(),
				"resources":   resources.Descriptors(),
			}, nil
		},
	}
}
