package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutor Pairing API",
        "description": "Weekly schedules, common availability, slot reservations and VARK/BFI based tutor pairing.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Schedules",
            "description": "Weekly availability and reserved slots"
        },
        {
            "name": "Availability",
            "description": "Common free time of two users"
        },
        {
            "name": "Profiles",
            "description": "Questionnaire results used for matching"
        },
        {
            "name": "Pairings",
            "description": "Greedy tutor/student matching"
        }
    ],
    "paths": {
        "/schedules/me": {
            "get": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Get my weekly schedule",
                "security": [
                    {
                        "BearerAuth": []
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
            "put": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Replace my available intervals",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateScheduleRequest"
                        }
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
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Delete my weekly schedule",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Schedule holds reservations",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/schedules/{userId}": {
            "get": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Get a user's weekly schedule",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string",
                        "description": "User ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/schedules/assignments": {
            "post": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Reserve a slot for two users",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SlotAssignmentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Both schedules saved",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "207": {
                        "description": "Only one schedule saved",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Overlaps another reservation",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Release a slot reserved between two users",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SlotAssignmentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Both schedules saved",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "207": {
                        "description": "Only one schedule saved",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "No reservation",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/availability/common": {
            "get": {
                "tags": [
                    "Availability"
                ],
                "summary": "Common availability of two users",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "user_a",
                        "required": true,
                        "type": "string",
                        "description": "First user ID"
                    },
                    {
                        "in": "query",
                        "name": "user_b",
                        "required": true,
                        "type": "string",
                        "description": "Second user ID"
                    },
                    {
                        "in": "query",
                        "name": "mode",
                        "required": false,
                        "type": "string",
                        "description": "slots (default) or raw"
                    },
                    {
                        "in": "query",
                        "name": "min_minutes",
                        "required": false,
                        "type": "integer",
                        "description": "Minimum overlap in raw mode"
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
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Schedule not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/profiles/{userId}/vector": {
            "get": {
                "tags": [
                    "Profiles"
                ],
                "summary": "Profile results and vector of a participant",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string",
                        "description": "User ID"
                    },
                    {
                        "in": "query",
                        "name": "bfi",
                        "required": false,
                        "type": "boolean",
                        "description": "Include BFI"
                    },
                    {
                        "in": "query",
                        "name": "bfi_weight",
                        "required": false,
                        "type": "number",
                        "description": "BFI weight"
                    },
                    {
                        "in": "query",
                        "name": "vark",
                        "required": false,
                        "type": "boolean",
                        "description": "Include VARK"
                    },
                    {
                        "in": "query",
                        "name": "vark_weight",
                        "required": false,
                        "type": "number",
                        "description": "VARK weight"
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
            }
        },
        "/pairings/suggestions": {
            "post": {
                "tags": [
                    "Pairings"
                ],
                "summary": "Suggest tutor/student pairings",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SuggestPairingsRequest"
                        }
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
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/pairings/suggestions/export": {
            "post": {
                "tags": [
                    "Pairings"
                ],
                "summary": "Export pairing suggestions",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "format",
                        "required": false,
                        "type": "string",
                        "description": "csv (default) or pdf"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SuggestPairingsRequest"
                        }
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "responses": {
                    "200": {
                        "description": "Rendered document",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/programs/{programId}/pairings/confirm": {
            "post": {
                "tags": [
                    "Pairings"
                ],
                "summary": "Confirm accepted suggestions for a program",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "programId",
                        "required": true,
                        "type": "string",
                        "description": "Program ID"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ConfirmPairingsRequest"
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
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/programs/{programId}/pairings": {
            "get": {
                "tags": [
                    "Pairings"
                ],
                "summary": "List confirmed pairings of a program",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "programId",
                        "required": true,
                        "type": "string",
                        "description": "Program ID"
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
            }
        }
    },
    "definitions": {
        "Assignment": {
            "type": "object",
            "properties": {
                "user_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                }
            }
        },
        "TimeInterval": {
            "type": "object",
            "required": [
                "start",
                "end"
            ],
            "properties": {
                "start": {
                    "type": "string",
                    "example": "09:00"
                },
                "end": {
                    "type": "string",
                    "example": "10:00"
                },
                "assignment": {
                    "$ref": "#/definitions/Assignment"
                }
            }
        },
        "UpdateScheduleRequest": {
            "type": "object",
            "required": [
                "days"
            ],
            "properties": {
                "days": {
                    "type": "object",
                    "description": "monday..sunday, all seven required",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "$ref": "#/definitions/TimeInterval"
                        }
                    }
                }
            }
        },
        "SlotAssignmentRequest": {
            "type": "object",
            "required": [
                "user_a",
                "user_b",
                "day",
                "start",
                "end"
            ],
            "properties": {
                "user_a": {
                    "type": "string"
                },
                "user_b": {
                    "type": "string"
                },
                "day": {
                    "type": "string",
                    "example": "monday"
                },
                "start": {
                    "type": "string",
                    "example": "10:00"
                },
                "end": {
                    "type": "string",
                    "example": "11:00"
                }
            }
        },
        "ProfileToggle": {
            "type": "object",
            "properties": {
                "enabled": {
                    "type": "boolean"
                },
                "weight": {
                    "type": "number"
                }
            }
        },
        "PairingOptions": {
            "type": "object",
            "properties": {
                "max_students_per_tutor": {
                    "type": "integer",
                    "minimum": 1
                },
                "bfi": {
                    "$ref": "#/definitions/ProfileToggle"
                },
                "vark": {
                    "$ref": "#/definitions/ProfileToggle"
                }
            }
        },
        "SuggestPairingsRequest": {
            "type": "object",
            "required": [
                "student_ids"
            ],
            "properties": {
                "tutor_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "student_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "options": {
                    "$ref": "#/definitions/PairingOptions"
                }
            }
        },
        "PairingSuggestion": {
            "type": "object",
            "properties": {
                "matched": {
                    "type": "boolean"
                },
                "tutor_id": {
                    "type": "string"
                },
                "student_id": {
                    "type": "string"
                },
                "similarity": {
                    "type": "number"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "ConfirmPairingsRequest": {
            "type": "object",
            "required": [
                "suggestions"
            ],
            "properties": {
                "suggestions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/PairingSuggestion"
                    }
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
