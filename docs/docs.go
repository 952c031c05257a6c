// Package docs registers the OpenAPI description of the status API, matching
// the swag annotations in internal/handlers and cmd/main.go.
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
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/v1/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["heating"],
                "summary": "Get persisted run state",
                "description": "initialized is false until the first run has saved a state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/service.StateView"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/v1/window": {
            "get": {
                "produces": ["application/json"],
                "tags": ["heating"],
                "summary": "Evaluate the run window",
                "description": "Weekdays 08:30 to 10:00 inclusive, in the offset of 'at'",
                "parameters": [
                    {
                        "type": "string",
                        "example": "2024-01-08T09:00:00Z",
                        "description": "Instant to evaluate (RFC3339), default now",
                        "name": "at",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/service.WindowView"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        }
    },
    "definitions": {
        "models.RunState": {
            "type": "object",
            "properties": {
                "last_run_time": {"type": "string"},
                "last_temperature": {"description": "Celsius, or the string Unknown"},
                "heating_triggered_today": {"type": "boolean"}
            }
        },
        "service.StateView": {
            "type": "object",
            "properties": {
                "initialized": {"type": "boolean"},
                "state": {"$ref": "#/definitions/models.RunState"}
            }
        },
        "service.WindowView": {
            "type": "object",
            "properties": {
                "at": {"type": "string"},
                "open": {"type": "boolean"}
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
	Title:            "Morning heating status API",
	Description:      "Read-only view of the morning heating helper's persisted state.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
