// Package docs registra a especificação OpenAPI servida em /swagger/doc.json.
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
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/register": {
            "post": {
                "tags": ["users"],
                "summary": "Registra um novo usuário",
                "parameters": [{"in": "body", "name": "registration", "required": true, "schema": {"$ref": "#/definitions/request.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Usuário criado com sucesso", "schema": {"$ref": "#/definitions/user.UserResponse"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "403": {"description": "Papel administrativo no registro público", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Email já cadastrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["users"],
                "summary": "Cadastra um usuário (administradores)",
                "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/request.CreateUserRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/user.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["users"],
                "summary": "Autentica um usuário e retorna um JWT",
                "parameters": [{"in": "body", "name": "login", "required": true, "schema": {"$ref": "#/definitions/request.LoginRequest"}}],
                "responses": {
                    "200": {"description": "Token JWT emitido", "schema": {"$ref": "#/definitions/user.TokenResponse"}},
                    "401": {"description": "Credenciais inválidas", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/clinics": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["clinics"],
                "summary": "Lista as clínicas do tenant",
                "parameters": [{"type": "string", "in": "query", "name": "tenant_id"}],
                "responses": {"200": {"description": "Lista de clínicas", "schema": {"type": "array", "items": {"$ref": "#/definitions/clinic.ClinicResponse"}}}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["clinics"],
                "summary": "Cria uma nova clínica",
                "parameters": [{"in": "body", "name": "clinic", "required": true, "schema": {"$ref": "#/definitions/request.ClinicRequest"}}],
                "responses": {
                    "201": {"description": "Clínica criada com sucesso", "schema": {"$ref": "#/definitions/clinic.ClinicResponse"}},
                    "400": {"description": "Payload ou subdomínio inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Subdomínio já em uso", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/clinics/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["clinics"],
                "summary": "Obtém uma clínica por ID",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {
                    "200": {"description": "Clínica encontrada", "schema": {"$ref": "#/definitions/clinic.ClinicResponse"}},
                    "404": {"description": "Clínica não encontrada", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["clinics"],
                "summary": "Atualiza os dados cadastrais da clínica",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "clinic", "required": true, "schema": {"$ref": "#/definitions/request.ClinicRequest"}}
                ],
                "responses": {"200": {"description": "Clínica atualizada", "schema": {"$ref": "#/definitions/clinic.ClinicResponse"}}}
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["clinics"],
                "summary": "Remove uma clínica",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"204": {"description": "Clínica removida"}}
            }
        },
        "/clinics/{id}/subdomain": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["clinics"],
                "summary": "Define ou remove o subdomínio da clínica",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "subdomain", "required": true, "schema": {"$ref": "#/definitions/request.SubdomainRequest"}}
                ],
                "responses": {
                    "200": {"description": "Subdomínio atualizado", "schema": {"$ref": "#/definitions/clinic.ClinicResponse"}},
                    "400": {"description": "Subdomínio inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Subdomínio já em uso", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/clinics/{id}/professionals": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["clinics"],
                "summary": "Lista os profissionais clínicos da clínica",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"type": "boolean", "in": "query", "name": "scheduling"}
                ],
                "responses": {"200": {"description": "Profissionais", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}}}}
            }
        },
        "/subdomains/{subdomain}": {
            "get": {
                "tags": ["clinics"],
                "summary": "Resolve uma clínica pelo subdomínio",
                "parameters": [{"type": "string", "in": "path", "name": "subdomain", "required": true}],
                "responses": {
                    "200": {"description": "Clínica encontrada", "schema": {"$ref": "#/definitions/clinic.ClinicResponse"}},
                    "400": {"description": "Subdomínio em formato inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Nenhuma clínica com o subdomínio", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "category": {"type": "string", "example": "INVALID_ARGUMENT"},
                "message": {"type": "string", "example": "Argumento inválido: Subdomain must be between 3 and 63 characters"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tenant_id": {"type": "string"},
                "clinic_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string", "enum": ["SystemAdmin", "ClinicOwner", "Receptionist", "Secretary", "Doctor", "Dentist", "Nurse", "Psychologist"]},
                "show_in_appointment_scheduling": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "user.UserResponse": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/domain.User"}],
            "properties": {"is_professional": {"type": "boolean"}}
        },
        "user.TokenResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "clinic.ClinicResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tenant_id": {"type": "string"},
                "name": {"type": "string"},
                "trade_name": {"type": "string"},
                "document": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "opening_hours": {"type": "string"},
                "default_appointment_duration": {"type": "integer", "example": 30},
                "subdomain": {"type": "string", "example": "sorriso"},
                "public_url": {"type": "string", "example": "https://sorriso.goclinic.app"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "request.ClinicRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "tenant_id": {"type": "string"},
                "name": {"type": "string"},
                "trade_name": {"type": "string"},
                "document": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "opening_hours": {"type": "string"},
                "default_appointment_duration": {"type": "integer"},
                "subdomain": {"type": "string"}
            }
        },
        "request.SubdomainRequest": {
            "type": "object",
            "properties": {"subdomain": {"type": "string", "x-nullable": true}}
        },
        "request.RegisterRequest": {
            "type": "object",
            "required": ["tenant_id", "name", "email", "password"],
            "properties": {
                "tenant_id": {"type": "string"},
                "clinic_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "role": {"type": "string"},
                "show_in_appointment_scheduling": {"type": "boolean"}
            }
        },
        "request.CreateUserRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role"],
            "properties": {
                "tenant_id": {"type": "string"},
                "clinic_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "role": {"type": "string"},
                "show_in_appointment_scheduling": {"type": "boolean"}
            }
        },
        "request.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo guarda os metadados exportados da API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "GoClinic API",
	Description:      "API de gestão de clínicas multi-tenant com resolução por subdomínio.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
