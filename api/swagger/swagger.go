package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Roster API",
        "description": "Teacher and student roster administration",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Roster", "description": "Teacher/student registration, suspension and notification recipients"}
    ],
    "paths": {
        "/register": {
            "post": {
                "tags": ["Roster"],
                "summary": "Register a teacher and their students",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "204": {"description": "Registered"},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/commonstudents": {
            "get": {
                "tags": ["Roster"],
                "summary": "List students common to all given teachers",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "teacher", "required": true, "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"}
                ],
                "responses": {
                    "200": {"description": "Common students", "schema": {"$ref": "#/definitions/CommonStudentsEnvelope"}},
                    "404": {"description": "Unknown teachers", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/suspend": {
            "post": {
                "tags": ["Roster"],
                "summary": "Suspend a student",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SuspendRequest"}}
                ],
                "responses": {
                    "204": {"description": "Suspended"},
                    "404": {"description": "Unknown student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/retrievefornotifications": {
            "post": {
                "tags": ["Roster"],
                "summary": "Resolve the recipients of a notification",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/NotificationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recipients", "schema": {"$ref": "#/definitions/RecipientsEnvelope"}},
                    "404": {"description": "Unknown teacher", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers": {
            "post": {
                "tags": ["Roster"],
                "summary": "Register a single teacher",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/EmailRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Teacher exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "post": {
                "tags": ["Roster"],
                "summary": "Register a single student",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/EmailRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Student exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments": {
            "post": {
                "tags": ["Roster"],
                "summary": "Assign an existing student to an existing teacher",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/AssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Assigned"},
                    "404": {"description": "Unknown teacher or student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["teacher", "students"],
            "properties": {
                "teacher": {"type": "string", "format": "email"},
                "students": {"type": "array", "items": {"type": "string", "format": "email"}}
            }
        },
        "SuspendRequest": {
            "type": "object",
            "required": ["student"],
            "properties": {
                "student": {"type": "string", "format": "email"}
            }
        },
        "NotificationRequest": {
            "type": "object",
            "required": ["teacher", "notification"],
            "properties": {
                "teacher": {"type": "string", "format": "email"},
                "notification": {"type": "string"}
            }
        },
        "EmailRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string", "format": "email"}
            }
        },
        "AssignmentRequest": {
            "type": "object",
            "required": ["teacher", "student"],
            "properties": {
                "teacher": {"type": "string", "format": "email"},
                "student": {"type": "string", "format": "email"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "emails": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "CommonStudentsEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object",
                    "properties": {
                        "students": {"type": "array", "items": {"type": "string"}}
                    }
                }
            }
        },
        "RecipientsEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object",
                    "properties": {
                        "recipients": {"type": "array", "items": {"type": "string"}}
                    }
                }
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
