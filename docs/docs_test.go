package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerInfo_ReadDoc(t *testing.T) {
	SwaggerInfo.Host = "api.example.test"
	SwaggerInfo.Schemes = []string{"https"}
	t.Cleanup(func() {
		SwaggerInfo.Host = ""
		SwaggerInfo.Schemes = []string{}
	})

	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		Swagger string                     `json:"swagger"`
		Host    string                     `json:"host"`
		Schemes []string                   `json:"schemes"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	assert.Equal(t, "2.0", parsed.Swagger)
	assert.Equal(t, "api.example.test", parsed.Host)
	assert.Equal(t, []string{"https"}, parsed.Schemes)
	for _, p := range []string{
		"/health",
		"/questions",
		"/questions/{id}",
		"/questions/{id}/image",
		"/questions/{id}/groups/{groupId}/answers/{answerId}/image",
	} {
		assert.Contains(t, parsed.Paths, p)
	}
}
