// Package docs is generated by swaggo/swag from the handler annotations.
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
        "/api/preferences": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Get preferences",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResp"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Merge preferences",
                "parameters": [
                    {"description": "Keys to overwrite", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": true}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResp"}}
                }
            }
        },
        "/api/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "List tasks",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.taskResp"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResp"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Create task",
                "parameters": [
                    {"description": "Task", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.createReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.taskResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResp"}}
                }
            }
        },
        "/api/tasks/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Get task",
                "parameters": [{"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.taskResp"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResp"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Update task",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.updateReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.taskResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResp"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResp"}}
                }
            },
            "delete": {
                "tags": ["Tasks"],
                "summary": "Delete task",
                "parameters": [{"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResp"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {"200": {"description": "API is healthy", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness Check",
                "responses": {"200": {"description": "API is alive", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check",
                "responses": {
                    "200": {"description": "API is ready", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/response.ErrorResp"}}
                }
            }
        }
    },
    "definitions": {
        "http.createReq": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high"]},
                "text": {"type": "string"}
            }
        },
        "http.updateReq": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "completed": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high"]},
                "rotation": {"type": "integer"},
                "text": {"type": "string"}
            }
        },
        "http.taskResp": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "completed": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "priority": {"type": "string"},
                "rotation": {"type": "integer"},
                "text": {"type": "string"}
            }
        },
        "response.ErrorResp": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1",
	Host:             "localhost:4000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Leaflet API",
	Description:      "To-do tasks and preferences for the Leaflet client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
