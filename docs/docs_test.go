package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocument(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "Omekan API", doc.Info.Title)

	tests := []struct {
		path   string
		method string
	}{
		{path: "/api/events", method: "get"},
		{path: "/api/events", method: "post"},
		{path: "/api/events/{slug}", method: "get"},
		{path: "/api/events/{id}", method: "delete"},
		{path: "/api/events/id/{id}/translations/{language}", method: "get"},
		{path: "/api/communities/{id}", method: "put"},
		{path: "/api/login", method: "post"},
		{path: "/api/admin/stats", method: "get"},
		{path: "/api/upload/event-image", method: "post"},
		{path: "/health", method: "get"},
	}
	for _, tt := range tests {
		assert.Contains(t, doc.Paths[tt.path], tt.method, "%s %s", tt.method, tt.path)
	}
	assert.Contains(t, doc.Definitions, "domain.EventInput")
	assert.Contains(t, doc.Definitions, "helpers.APIResponse")
}
