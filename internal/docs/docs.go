// Package docs registra el documento Swagger de la API. Se mantiene a mano junto a
// las anotaciones swag de los handlers.
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
        "/records": {
            "get": {
                "description": "Lista los registros del usuario, más recientes primero. Sin ` + "`" + `filter` + "`" + ` no se filtra.",
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Listar registros",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "today | last7days | last30days | custom", "name": "filter", "in": "query"},
                    {"type": "string", "description": "Inicio (YYYY-MM-DD), solo custom", "name": "start", "in": "query"},
                    {"type": "string", "description": "Fin (YYYY-MM-DD), solo custom", "name": "end", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/records.recordResponse"}}},
                    "400": {"description": "Parámetros de filtro inválidos", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Crea un registro de salud para el usuario autenticado. Todas las mediciones son opcionales, pero se requiere al menos una (o una nota).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Registrar medición",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"description": "Medición; taken_at en RFC3339", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/records.createRecordRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/records.recordResponse"}},
                    "400": {"description": "invalid json / taken_at inválido / reglas de negocio", "schema": {"type": "string"}},
                    "413": {"description": "request body too large", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "description": "Elimina todos los registros del usuario. No se puede deshacer.",
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Borrar todos los registros",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.clearResponse"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/records/summary": {
            "get": {
                "description": "Promedio del período seleccionado y de los últimos 7 días por métrica. Los 7 días se calculan sobre todos los registros, sin importar el filtro. Un promedio sin datos se devuelve como null.",
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Resumen de promedios",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "today | last7days | last30days | custom", "name": "filter", "in": "query"},
                    {"type": "string", "description": "Inicio (YYYY-MM-DD), solo custom", "name": "start", "in": "query"},
                    {"type": "string", "description": "Fin (YYYY-MM-DD), solo custom", "name": "end", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.summaryResponse"}},
                    "400": {"description": "Parámetros de filtro inválidos", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/records/series/{field}": {
            "get": {
                "description": "Puntos de una métrica en orden cronológico, con su banda clínica. Frecuencia cardíaca nunca se marca.",
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Serie para gráficos",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "glycemia | systolic | diastolic | heart_rate", "name": "field", "in": "path", "required": true},
                    {"type": "string", "description": "today | last7days | last30days | custom", "name": "filter", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/records.pointResponse"}}},
                    "400": {"description": "unknown field / filtro inválido", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/records/{recordID}": {
            "delete": {
                "tags": ["records"],
                "summary": "Eliminar registro",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "ID del registro", "name": "recordID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "record not found", "schema": {"type": "string"}}
                }
            }
        },
        "/reports/csv": {
            "get": {
                "description": "Genera el reporte del usuario: resumen (promedio general y de 7 días sobre todos los registros) y tabla de registros del período pedido, con valores fuera de rango resaltados.",
                "produces": ["text/csv"],
                "tags": ["reports"],
                "summary": "Exportar reporte",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "today | last7days | last30days | custom", "name": "filter", "in": "query"},
                    {"type": "string", "description": "Inicio (YYYY-MM-DD), solo custom", "name": "start", "in": "query"},
                    {"type": "string", "description": "Fin (YYYY-MM-DD), solo custom", "name": "end", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Parámetros de filtro inválidos", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/reports/pdf": {
            "get": {
                "description": "Genera el reporte del usuario: resumen (promedio general y de 7 días sobre todos los registros) y tabla de registros del período pedido, con valores fuera de rango resaltados.",
                "produces": ["application/pdf"],
                "tags": ["reports"],
                "summary": "Exportar reporte",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "today | last7days | last30days | custom", "name": "filter", "in": "query"},
                    {"type": "string", "description": "Inicio (YYYY-MM-DD), solo custom", "name": "start", "in": "query"},
                    {"type": "string", "description": "Fin (YYYY-MM-DD), solo custom", "name": "end", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Parámetros de filtro inválidos", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "records.abnormalFlags": {
            "type": "object",
            "properties": {
                "blood_pressure": {"type": "boolean"},
                "glycemia": {"type": "boolean"}
            }
        },
        "records.clearResponse": {
            "type": "object",
            "properties": {
                "deleted": {"type": "integer"}
            }
        },
        "records.createRecordRequest": {
            "type": "object",
            "properties": {
                "diastolic": {"type": "number"},
                "glycemia": {"type": "number"},
                "heart_rate": {"type": "number"},
                "note": {"type": "string"},
                "systolic": {"type": "number"},
                "taken_at": {"description": "RFC3339, opcional (default: ahora)", "type": "string"}
            }
        },
        "records.pointResponse": {
            "type": "object",
            "properties": {
                "abnormal": {"type": "boolean"},
                "band": {"type": "string", "enum": ["low", "normal", "high"]},
                "taken_at": {"type": "string"},
                "value": {"type": "number"}
            }
        },
        "records.recordResponse": {
            "type": "object",
            "properties": {
                "abnormal": {"$ref": "#/definitions/records.abnormalFlags"},
                "created_at": {"type": "string"},
                "diastolic": {"type": "number"},
                "glycemia": {"type": "number"},
                "heart_rate": {"type": "number"},
                "id": {"type": "string"},
                "note": {"type": "string"},
                "systolic": {"type": "number"},
                "taken_at": {"type": "string"}
            }
        },
        "records.summaryResponse": {
            "type": "object",
            "properties": {
                "filter": {"type": "string"},
                "records": {"type": "integer"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/records.summaryRow"}}
            }
        },
        "records.summaryRow": {
            "type": "object",
            "properties": {
                "period": {"type": "number"},
                "field": {"type": "string", "enum": ["glycemia", "systolic", "diastolic", "heart_rate"]},
                "label": {"type": "string"},
                "last_7_days": {"type": "number"},
                "unit": {"type": "string"}
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
	Title:            "Health Monitor API",
	Description:      "Registro personal de presión arterial, glicemia y frecuencia cardíaca: filtros por período, promedios, valores fuera de rango y reportes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
