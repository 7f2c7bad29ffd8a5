package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Scheduling API",
        "description": "Teacher availability, seat capacity, enrollment and course calendar projection.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Slots",
            "description": "Dated teaching slots"
        },
        {
            "name": "Availability",
            "description": "Weekly patterns and seat capacity"
        },
        {
            "name": "Enrollments",
            "description": "Enrollment forms and seat claims"
        },
        {
            "name": "Course Schedules",
            "description": "Course calendar projection"
        },
        {
            "name": "Holidays",
            "description": "Holiday calendar"
        },
        {
            "name": "Events",
            "description": "Change notifications"
        },
        {
            "name": "Observability",
            "description": "Health and metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Readiness check",
                "description": "Pings PostgreSQL and, when enabled, Redis.",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is down"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "Prometheus exposition"
                    }
                }
            }
        },
        "/api/v1/metrics/summary": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Service metrics summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/teachers/{teacherId}/slots": {
            "get": {
                "tags": [
                    "Slots"
                ],
                "summary": "List teacher slots",
                "description": "Expands active availability patterns over [start, end], skipping weekends and holidays.",
                "parameters": [
                    {
                        "name": "teacherId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Teacher ID"
                    },
                    {
                        "name": "start",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "format": "date"
                    },
                    {
                        "name": "end",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "format": "date"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid range",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/teachers/{teacherId}/availability/validation": {
            "get": {
                "tags": [
                    "Availability"
                ],
                "summary": "Validate teacher availability",
                "parameters": [
                    {
                        "name": "teacherId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Teacher ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Availability report",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/teachers/{teacherId}/availability/overlaps": {
            "get": {
                "tags": [
                    "Availability"
                ],
                "summary": "Detect overlapping patterns",
                "parameters": [
                    {
                        "name": "teacherId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Teacher ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Overlap pairs",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/teachers/{teacherId}/events": {
            "get": {
                "tags": [
                    "Events"
                ],
                "summary": "Stream teacher change events",
                "description": "Websocket upgrade. Each message is a JSON change event.",
                "parameters": [
                    {
                        "name": "teacherId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Teacher ID"
                    }
                ],
                "responses": {
                    "101": {
                        "description": "Switching protocols"
                    },
                    "400": {
                        "description": "Invalid teacher id",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/patterns/{patternId}/capacity": {
            "get": {
                "tags": [
                    "Availability"
                ],
                "summary": "Seat usage of a pattern on a date",
                "parameters": [
                    {
                        "name": "patternId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Pattern ID"
                    },
                    {
                        "name": "date",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "format": "date"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Capacity info",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Pattern not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/patterns/{patternId}/capacity/check": {
            "post": {
                "tags": [
                    "Availability"
                ],
                "summary": "Check whether extra seats fit",
                "parameters": [
                    {
                        "name": "patternId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Pattern ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CapacityCheckRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Conflict verdict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/enrollments/validate": {
            "post": {
                "tags": [
                    "Enrollments"
                ],
                "summary": "Validate an enrollment form",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/EnrollmentForm"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Validation result",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/enrollments/payload": {
            "post": {
                "tags": [
                    "Enrollments"
                ],
                "summary": "Build the schedule payload of a valid form",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/EnrollmentForm"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Schedule payload",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Form invalid",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/enrollments": {
            "get": {
                "tags": [
                    "Enrollments"
                ],
                "summary": "List enrollments",
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "teacherId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "patternId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "classDate",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Enrollments"
                ],
                "summary": "Claim a seat",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateEnrollmentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid date",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Slot full or duplicate",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "412": {
                        "description": "Pattern inactive",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/enrollments/{id}": {
            "delete": {
                "tags": [
                    "Enrollments"
                ],
                "summary": "Cancel an enrollment",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Enrollment ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Cancelled",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Not active",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/course-schedules": {
            "post": {
                "tags": [
                    "Course Schedules"
                ],
                "summary": "Project a course calendar",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CourseScheduleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Course schedule",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Projection ceiling exceeded",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/course-schedules/export": {
            "post": {
                "tags": [
                    "Course Schedules"
                ],
                "summary": "Export a projected course calendar",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "description": "csv or pdf"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CourseScheduleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File download"
                    }
                }
            }
        },
        "/api/v1/holidays": {
            "get": {
                "tags": [
                    "Holidays"
                ],
                "summary": "List holidays in a range",
                "parameters": [
                    {
                        "name": "start",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "format": "date"
                    },
                    {
                        "name": "end",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "format": "date"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Holidays; meta.cache_hit reports cache use",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "EnrollmentForm": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "course_id": {
                    "type": "string"
                },
                "is_online": {
                    "type": "boolean"
                },
                "has_two_classes_per_week": {
                    "type": "boolean"
                },
                "schedule_slot_1": {
                    "type": "string",
                    "description": "instructorId|day(1-7)|HH:MM-HH:MM"
                },
                "schedule_slot_2": {
                    "type": "string"
                }
            }
        },
        "CreateEnrollmentRequest": {
            "type": "object",
            "properties": {
                "studentId": {
                    "type": "string"
                },
                "courseId": {
                    "type": "string"
                },
                "patternId": {
                    "type": "string"
                },
                "classDate": {
                    "type": "string",
                    "format": "date"
                }
            }
        },
        "CapacityCheckRequest": {
            "type": "object",
            "properties": {
                "requestedSeats": {
                    "type": "integer"
                },
                "date": {
                    "type": "string",
                    "format": "date"
                }
            }
        },
        "Holiday": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string",
                    "format": "date"
                },
                "name": {
                    "type": "string"
                },
                "is_national": {
                    "type": "boolean"
                }
            }
        },
        "CourseScheduleRequest": {
            "type": "object",
            "properties": {
                "startDate": {
                    "type": "string",
                    "format": "date"
                },
                "courseHours": {
                    "type": "number"
                },
                "weeklyClasses": {
                    "type": "integer"
                },
                "classStart": {
                    "type": "string"
                },
                "classMinutes": {
                    "type": "integer"
                },
                "useHolidayCalendar": {
                    "type": "boolean"
                },
                "holidays": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Holiday"
                    }
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
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
