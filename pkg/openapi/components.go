package openapi

import "maps"

// NewComponents creates Components with the shared error envelope and the
// error responses every endpoint can return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"ErrorResponse": {
				Type:     "object",
				Required: []string{"ok", "error"},
				Properties: map[string]*Schema{
					"ok":    {Type: "boolean", Example: false},
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":          errorResponse("Invalid request"),
			"NotFound":            errorResponse("Resource not found"),
			"PayloadTooLarge":     errorResponse("Request body exceeds the configured limit"),
			"ServiceUnavailable":  errorResponse("Backing store unavailable"),
			"InternalServerError": errorResponse("Unexpected server error"),
		},
	}
}

func errorResponse(description string) *Response {
	return ResponseJSON(description, "ErrorResponse")
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
