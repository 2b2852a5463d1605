package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "DriveDesk Scheduler API",
        "description": "Driving-school program generation, capacity planning and instructor assignment",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Programs", "description": "Program generation and schedules"},
        {"name": "Capacity", "description": "Drive-slot capacity planning"},
        {"name": "Instructors", "description": "Roster and availability management"},
        {"name": "Exports", "description": "Schedule and capacity downloads"}
    ],
    "paths": {
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "parameters": [
                    {"name": "school", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["planned", "active", "scheduled"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Queue program generation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateProgramRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/tasks/{id}": {
            "get": {
                "tags": ["Programs"],
                "summary": "Poll a generation task",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown task", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/{name}": {
            "get": {
                "tags": ["Programs"],
                "summary": "Get a program",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown program", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/{name}/schedule": {
            "get": {
                "tags": ["Programs"],
                "summary": "Get the merged day-by-day schedule",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/{name}/instructors": {
            "post": {
                "tags": ["Programs"],
                "summary": "Assign instructors to a program",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/AssignInstructorsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No eligible instructors", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/{name}/export/pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the program schedule as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/capacity": {
            "get": {
                "tags": ["Capacity"],
                "summary": "Calculate drive-slot capacity for a start date",
                "parameters": [
                    {"name": "school", "in": "query", "required": true, "type": "string"},
                    {"name": "startDate", "in": "query", "required": true, "type": "string"},
                    {"name": "variant", "in": "query", "type": "string", "enum": ["standard", "compressed"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/capacity/export/csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the rolling capacity report as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "school", "in": "query", "required": true, "type": "string"},
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "CSV document"}
                }
            }
        },
        "/instructors": {
            "get": {
                "tags": ["Instructors"],
                "summary": "List active instructors",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}/availability": {
            "put": {
                "tags": ["Instructors"],
                "summary": "Replace an instructor's weekly template",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAvailabilityRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/instructors/{id}/vacations": {
            "post": {
                "tags": ["Instructors"],
                "summary": "Add a vacation window",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddVacationRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/availability/refresh": {
            "post": {
                "tags": ["Instructors"],
                "summary": "Extend long-range availability to the horizon",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateProgramRequest": {
            "type": "object",
            "properties": {
                "school": {"type": "string"},
                "startDate": {"type": "string", "example": "2025-03-03"},
                "variant": {"type": "string", "enum": ["standard", "compressed"]},
                "studentCount": {"type": "integer"},
                "students": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["school", "startDate"]
        },
        "AssignInstructorsRequest": {
            "type": "object",
            "properties": {
                "instructorIds": {"type": "array", "items": {"type": "string"}, "minItems": 2, "maxItems": 3}
            }
        },
        "UpdateAvailabilityRequest": {
            "type": "object",
            "properties": {
                "weeklyTemplate": {"type": "object"},
                "schoolExclusions": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["weeklyTemplate"]
        },
        "AddVacationRequest": {
            "type": "object",
            "properties": {
                "startDate": {"type": "string", "example": "2025-06-02"},
                "endDate": {"type": "string", "example": "2025-06-06"},
                "reason": {"type": "string"}
            },
            "required": ["startDate", "endDate"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
