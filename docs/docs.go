// Package docs registers the Swagger 2.0 document served by the Swagger UI under /swagger.
// It mirrors openapi.yaml; keep the two in step when routes change.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Readiness check (pings the database when one is configured)",
                "responses": {
                    "200": {"description": "Healthy"},
                    "503": {"description": "Unhealthy", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "summary": "Liveness probe",
                "responses": {"200": {"description": "Alive"}}
            }
        },
        "/questions": {
            "get": {
                "produces": ["application/json"],
                "summary": "List questions",
                "parameters": [
                    {"enum": ["createdAt", "updatedAt", "text"], "type": "string", "name": "orderBy", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "default": "desc", "name": "order", "in": "query"},
                    {"type": "boolean", "name": "required", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Questions", "schema": {"$ref": "#/definitions/QuestionList"}},
                    "400": {"description": "Bad query", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "post": {
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Create a question",
                "parameters": [
                    {"name": "question", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Question"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ID"}},
                    "400": {"description": "Invalid question", "schema": {"$ref": "#/definitions/Error"}},
                    "413": {"description": "Attachment too large", "schema": {"$ref": "#/definitions/Error"}},
                    "502": {"description": "Upload failed", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/questions/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get a question",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Question", "schema": {"$ref": "#/definitions/Question"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Save a question under id, creating it if unknown",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "question", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Question"}}
                ],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/ID"}},
                    "400": {"description": "Invalid question", "schema": {"$ref": "#/definitions/Error"}},
                    "502": {"description": "Upload failed", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "summary": "Delete a question and its images",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/questions/{id}/image": {
            "delete": {
                "summary": "Remove the question image",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/questions/{id}/groups/{groupId}/answers/{answerId}/image": {
            "delete": {
                "summary": "Remove an answer image",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "groupId", "in": "path", "required": true},
                    {"type": "string", "name": "answerId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Answer": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "isCorrect": {"type": "boolean"},
                "imageUrl": {"type": "string"}
            }
        },
        "AnswerGroup": {
            "type": "object",
            "required": ["answers"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "answers": {"type": "array", "items": {"$ref": "#/definitions/Answer"}}
            }
        },
        "Question": {
            "type": "object",
            "required": ["text", "answerGroups"],
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "description": {"type": "string"},
                "required": {"type": "boolean"},
                "imageUrl": {"type": "string"},
                "answerGroups": {"type": "array", "items": {"$ref": "#/definitions/AnswerGroup"}},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "QuestionList": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Question"}},
                "total": {"type": "integer"}
            }
        },
        "ID": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "Error": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Question API",
	Description:      "Stores question trees (question, answer groups, answers) with image attachments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
