// Package docs registers the portal's OpenAPI description with swag.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
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
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Email and password", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.LoginForm"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "403": {"description": "Account disabled", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {"produces": ["application/json"], "tags": ["auth"], "summary": "Log out and drop every view of this browser", "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/session": {
            "get": {"produces": ["application/json"], "tags": ["auth"], "summary": "Current identity of this browser", "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/register/player": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a player",
                "description": "The city comes from the register-player form selection.",
                "parameters": [
                    {"description": "Player data", "name": "player", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.PlayerRegistrationForm"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email taken", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/auth/register/organizer": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register an organizer",
                "parameters": [
                    {"description": "Organizer data", "name": "organizer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.OrganizerRegistrationForm"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email taken", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/locations/countries": {
            "get": {"produces": ["application/json"], "tags": ["locations"], "summary": "List countries", "responses": {"200": {"description": "OK"}}}
        },
        "/api/catalog/tournaments": {
            "get": {"produces": ["application/json"], "tags": ["catalog"], "summary": "List base tournament types", "responses": {"200": {"description": "OK"}}}
        },
        "/api/forms/{form}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Open a form: countries, tournament types and the current selection",
                "parameters": [
                    {"type": "string", "enum": ["create-tournament", "edit-tournament", "register-player", "register-organizer"], "name": "form", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown form"}}
            }
        },
        "/api/forms/{form}/country": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Select a country; clears the city and loads the country's cities",
                "parameters": [
                    {"type": "string", "name": "form", "in": "path", "required": true},
                    {"name": "selection", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.selectInput"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/cascade.State"}}}
            }
        },
        "/api/forms/{form}/city": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Select a city of the current country",
                "parameters": [
                    {"type": "string", "name": "form", "in": "path", "required": true},
                    {"name": "selection", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.selectInput"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/cascade.State"}}, "409": {"description": "Cities still loading"}}
            }
        },
        "/api/forms/edit-tournament/{id}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Open the edit form pre-filled from an offering",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Offering no longer exists"}}
            }
        },
        "/api/organizer/dashboard": {
            "get": {"produces": ["application/json"], "tags": ["organizer"], "summary": "Mount the organizer dashboard", "responses": {"200": {"description": "OK"}}}
        },
        "/api/organizer/tournaments": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["organizer"],
                "summary": "Create an offering",
                "parameters": [
                    {"name": "offering", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.TournamentForm"}}
                ],
                "responses": {"201": {"description": "Created"}, "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.errorBody"}}}
            }
        },
        "/api/organizer/tournaments/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["organizer"],
                "summary": "Update an offering",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "offering", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.TournamentForm"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Offering no longer exists"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["organizer"],
                "summary": "Delete an offering",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/organizer/tournaments/{id}/players": {
            "get": {
                "produces": ["application/json"],
                "tags": ["organizer"],
                "summary": "Players enrolled in an offering",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/organizer/tournaments/{id}/players/export": {
            "post": {
                "produces": ["application/json"],
                "tags": ["organizer"],
                "summary": "Export the roster of an offering as CSV to object storage",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/storage.UploadResult"}}, "503": {"description": "Storage not configured"}}
            }
        },
        "/api/player/dashboard": {
            "get": {"produces": ["application/json"], "tags": ["player"], "summary": "Mount the player dashboard", "responses": {"200": {"description": "OK"}}}
        },
        "/api/player/enrollments": {
            "get": {"produces": ["application/json"], "tags": ["player"], "summary": "The player's upcoming enrollments", "responses": {"200": {"description": "OK"}}},
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["player"],
                "summary": "Pay and enroll in an offering",
                "description": "Card details are checked before the simulated payment starts.",
                "parameters": [
                    {"name": "enrollment", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Not eligible", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Already enrolled", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "422": {"description": "Invalid card", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/player/enrollments/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["player"],
                "summary": "Cancel an enrollment",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/profile": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update the profile of the logged-in user",
                "parameters": [
                    {"name": "profile", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ProfileUpdate"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/profile/address": {
            "get": {"produces": ["application/json"], "tags": ["profile"], "summary": "Address of the logged-in user", "responses": {"200": {"description": "OK"}}}
        },
        "/api/profile/photo": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Upload a profile picture",
                "parameters": [{"type": "file", "description": "Image, at most 5MB", "name": "file", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK"}, "413": {"description": "Too large"}, "415": {"description": "Not an image"}}
            },
            "delete": {"produces": ["application/json"], "tags": ["profile"], "summary": "Remove the profile picture", "responses": {"200": {"description": "OK"}}}
        },
        "/ws/notifications": {
            "get": {"tags": ["notifications"], "summary": "Notification stream of this browser session", "responses": {"101": {"description": "Switching Protocols"}}}
        }
    },
    "definitions": {
        "handlers.errorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "field": {"type": "string"},
                "notification": {"$ref": "#/definitions/notifications.Toast"}
            }
        },
        "handlers.selectInput": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "wait": {"type": "boolean"}}
        },
        "notifications.Toast": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "type": {"type": "string", "enum": ["success", "error", "info", "warning"]},
                "duration": {"type": "integer"}
            }
        },
        "cascade.State": {
            "type": "object",
            "properties": {
                "country_id": {"type": "integer"},
                "city_id": {"type": "integer"},
                "cities": {"type": "array", "items": {"type": "object"}},
                "loading": {"type": "boolean"},
                "generation": {"type": "integer"},
                "error": {"type": "string"}
            }
        },
        "validation.LoginForm": {
            "type": "object",
            "properties": {"correo": {"type": "string"}, "contraseña": {"type": "string"}}
        },
        "validation.PlayerRegistrationForm": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "apellido": {"type": "string"},
                "telefono": {"type": "string"},
                "correo": {"type": "string"},
                "contraseña": {"type": "string"},
                "confirmar_contraseña": {"type": "string"},
                "direccion": {"type": "string"}
            }
        },
        "validation.OrganizerRegistrationForm": {
            "type": "object",
            "properties": {
                "nombre_organizador": {"type": "string"},
                "correo": {"type": "string"},
                "contraseña": {"type": "string"},
                "confirmar_contraseña": {"type": "string"},
                "direccion": {"type": "string"}
            }
        },
        "validation.TournamentForm": {
            "type": "object",
            "properties": {
                "fk_torneo_id": {"type": "integer"},
                "fecha_torneo": {"type": "string", "format": "date"},
                "costo": {"type": "number"}
            }
        },
        "validation.CardForm": {
            "type": "object",
            "properties": {
                "numero": {"type": "string"},
                "titular": {"type": "string"},
                "mes": {"type": "string"},
                "ano": {"type": "string"},
                "cvv": {"type": "string"}
            }
        },
        "services.EnrollRequest": {
            "type": "object",
            "properties": {
                "fk_torneo_organizador_id": {"type": "integer"},
                "medio_pago": {"type": "string", "enum": ["Tarjeta", "Efectivo", "Transferencia"]},
                "tarjeta": {"$ref": "#/definitions/validation.CardForm"}
            }
        },
        "services.ProfileUpdate": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "apellido": {"type": "string"},
                "telefono": {"type": "string"},
                "nombre_organizador": {"type": "string"},
                "direccion": {"type": "string"}
            }
        },
        "storage.UploadResult": {
            "type": "object",
            "properties": {"key": {"type": "string"}, "location": {"type": "string"}, "etag": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Chess Tournament Portal API",
	Description:      "Session-backed portal in front of the chess tournament backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
