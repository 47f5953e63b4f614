// Package docs registers the popupzone OpenAPI document with swag so that
// gin-swagger can serve it under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/occupancies": {
            "post": {
                "tags": ["placement"],
                "summary": "Request a placement on a zone cell",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RequestOccupancy"}}],
                "responses": {
                    "201": {"description": "PENDING occupancy created"},
                    "400": {"description": "Invalid date range"},
                    "404": {"description": "Unknown cell"},
                    "409": {"description": "Overlaps an existing occupancy"},
                    "422": {"description": "Cell closed by an availability window"},
                    "503": {"description": "Cell lock timed out, retry"}
                }
            }
        },
        "/occupancies/{id}": {
            "get": {
                "tags": ["placement"],
                "summary": "Get an occupancy",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Occupancy"}, "403": {"description": "Not the owner"}, "404": {"description": "Unknown occupancy"}}
            }
        },
        "/occupancies/{id}/history": {
            "get": {
                "tags": ["placement"],
                "summary": "Approval records of an occupancy",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Approval records, oldest first"}}
            }
        },
        "/sellers/me/occupancies": {
            "get": {
                "tags": ["placement"],
                "summary": "List the caller's occupancies",
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "size", "type": "integer"}
                ],
                "responses": {"200": {"description": "Page of occupancies"}}
            }
        },
        "/cells/{id}/availability": {
            "get": {
                "tags": ["placement"],
                "summary": "Check whether a cell is free over a date range",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "from", "type": "string", "format": "date", "required": true},
                    {"in": "query", "name": "to", "type": "string", "format": "date", "required": true}
                ],
                "responses": {"200": {"description": "FREE, UNAVAILABLE or CONFLICTS_WITH"}}
            }
        },
        "/admin/approvals": {
            "get": {
                "tags": ["approvals"],
                "summary": "Pending occupancies, oldest request first",
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "size", "type": "integer"}
                ],
                "responses": {"200": {"description": "Page of pending items"}}
            }
        },
        "/admin/approvals/{id}/approve": {
            "post": {
                "tags": ["approvals"],
                "summary": "Approve a pending occupancy",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Approval record"}, "409": {"description": "Already decided or conflicting"}}
            }
        },
        "/admin/approvals/{id}/reject": {
            "post": {
                "tags": ["approvals"],
                "summary": "Reject a pending occupancy",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Decision"}}
                ],
                "responses": {"200": {"description": "Approval record"}, "409": {"description": "Already decided"}}
            }
        },
        "/admin/zone-areas": {
            "post": {"tags": ["zones"], "summary": "Create a zone area", "responses": {"201": {"description": "Zone area"}}},
            "get": {"tags": ["zones"], "summary": "List zone areas", "responses": {"200": {"description": "Zone areas"}}}
        },
        "/admin/windows": {
            "post": {"tags": ["zones"], "summary": "Close an area or cell over a date range", "responses": {"201": {"description": "Availability window"}}}
        },
        "/zone-cells": {
            "post": {"tags": ["zones"], "summary": "Register a cell in an available area", "responses": {"201": {"description": "Zone cell"}, "422": {"description": "Area not accepting cells"}}}
        }
    },
    "definitions": {
        "RequestOccupancy": {
            "type": "object",
            "required": ["zone_cell_id", "name", "start_date", "end_date"],
            "properties": {
                "zone_cell_id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"}
            }
        },
        "Decision": {
            "type": "object",
            "properties": {"reason": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "popupzone API",
	Description:      "Pop-up store placement on managed street zones.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
