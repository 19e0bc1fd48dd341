package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SL Formations Coordination API",
        "description": "Instructor assignment, session booking and payment reconciliation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Assignments", "description": "Student ↔ instructor matching"},
        {"name": "Sessions", "description": "Session calendar and capacity"},
        {"name": "Bookings", "description": "Booking lifecycle and attendance"},
        {"name": "Students", "description": "Student account read views"},
        {"name": "Webhooks", "description": "Payment provider deliveries"}
    ],
    "paths": {
        "/assignments/assign": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Assign the best available instructor to a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found"},
                    "409": {"description": "No instructor available"}
                }
            }
        },
        "/assignments/change": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Manually change a student's instructor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeInstructorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Target instructor not eligible"}
                }
            }
        },
        "/assignments/active": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get the active assignment for a student and course type",
                "parameters": [
                    {"name": "studentId", "in": "query", "required": true, "type": "string"},
                    {"name": "courseType", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No active assignment"}
                }
            }
        },
        "/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List sessions",
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Create a session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get one session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/bookings": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Book a student into a session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Session full or already booked"}
                }
            }
        },
        "/bookings/{id}/cancel": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Cancel a booking and release its seat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Booking not found"}
                }
            }
        },
        "/bookings/{id}/attendance": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Record attendance for a booking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid status transition"}
                }
            }
        },
        "/students/{id}/credit": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student's driving-time credit balance",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/students/{id}/enrollments": {
            "get": {
                "tags": ["Students"],
                "summary": "List a student's course enrollments",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/webhooks/payment": {
            "post": {
                "tags": ["Webhooks"],
                "summary": "Receive a payment-succeeded webhook",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentEvent"}}
                ],
                "responses": {
                    "200": {"description": "Acknowledged"},
                    "400": {"description": "Unparseable body"}
                }
            }
        }
    },
    "definitions": {
        "AssignRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "course_type": {"type": "string"},
                "preferred_vehicle_type": {"type": "string", "enum": ["MANUAL", "AUTOMATIC"]}
            },
            "required": ["student_id", "course_type"]
        },
        "ChangeInstructorRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "from_instructor_id": {"type": "string"},
                "to_instructor_id": {"type": "string"},
                "course_type": {"type": "string"},
                "comment": {"type": "string"}
            },
            "required": ["student_id", "from_instructor_id", "to_instructor_id", "course_type"]
        },
        "CreateSessionRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "starts_at": {"type": "string"},
                "ends_at": {"type": "string"},
                "location": {"type": "string"},
                "max_spots": {"type": "integer"},
                "main_instructor_id": {"type": "string"}
            },
            "required": ["course_id", "starts_at", "ends_at", "location", "max_spots"]
        },
        "BookRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "student_id": {"type": "string"}
            },
            "required": ["session_id", "student_id"]
        },
        "AttendanceRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["PRESENT", "ABSENT", "BOOKED"]}
            },
            "required": ["status"]
        },
        "PaymentEvent": {
            "type": "object",
            "properties": {
                "providerSessionId": {"type": "string"},
                "amountTotal": {"type": "integer"},
                "currency": {"type": "string"},
                "metadata": {"$ref": "#/definitions/PaymentEventMetadata"}
            },
            "required": ["providerSessionId"]
        },
        "PaymentEventMetadata": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "courseId": {"type": "string"},
                "sessionId": {"type": "string"},
                "quantity": {"type": "string"},
                "productType": {"type": "string"},
                "hoursPerUnit": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
