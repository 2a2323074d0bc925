// Package docs holds the swagger document served by the swagger build.
// Regenerate with `swag init -g cmd/docqa/docs.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/ask": {
            "post": {
                "description": "Sends the prompt, followed by the text of the uploaded file, to the completion endpoint and returns the trimmed answer.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["ask"],
                "summary": "Ask a question, optionally about an uploaded document",
                "parameters": [
                    {"type": "string", "description": "Completion endpoint credential", "name": "api_key", "in": "formData", "required": true},
                    {"type": "string", "description": "Model id", "name": "model", "in": "formData"},
                    {"type": "string", "description": "Prompt text", "name": "prompt", "in": "formData"},
                    {"type": "number", "description": "Temperature in [0,1]", "name": "temperature", "in": "formData"},
                    {"type": "integer", "description": "Max output tokens in [1,1000]", "name": "max_tokens", "in": "formData"},
                    {"type": "file", "description": "Document (.txt, .pdf, .docx)", "name": "file", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.AskResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List selectable models",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.AskResponse": {
            "type": "object",
            "properties": {
                "answer": {"type": "string", "example": "A summary."},
                "document": {"type": "string", "example": "pdf"},
                "model": {"type": "string", "example": "gpt-4o-mini"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "Please enter your OpenAI API Key."},
                "kind": {"type": "string", "example": "missing_credential"}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "default": {"type": "boolean", "example": true},
                "id": {"type": "string", "example": "gpt-4o-mini"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "default": {"type": "string", "example": "gpt-4o-mini"},
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "docqa API",
	Description:      "Ask a hosted completion model about a prompt and an optional document.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
