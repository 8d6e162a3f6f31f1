package schema

// JSON Schemas for the two artifact documents. Structural validation runs
// before decoding so malformed documents fail with a precise message
// instead of a zero-valued struct.

const artifactDocumentSchema = `{
  "type": "object",
  "required": ["version", "columns", "scaler", "classifier"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "columns": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "scaler": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["mean", "scale"],
        "properties": {
          "mean": {"type": "number"},
          "scale": {"type": "number"}
        }
      }
    },
    "classifier": {
      "type": "object",
      "required": ["intercept", "coefficients"],
      "properties": {
        "intercept": {"type": "number"},
        "coefficients": {
          "type": "object",
          "additionalProperties": {"type": "number"}
        }
      }
    }
  }
}`

const featuresDocumentSchema = `{
  "type": "object",
  "required": ["fields"],
  "properties": {
    "fields": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "type", "required"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "type": {"enum": ["number", "choice"]},
          "question": {"type": "string"},
          "required": {"type": "boolean"},
          "default": {},
          "min": {"type": "number"},
          "max": {"type": "number"},
          "options": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["label"],
              "properties": {
                "label": {"type": "string", "minLength": 1},
                "column": {"type": "string", "minLength": 1}
              }
            }
          }
        }
      }
    }
  }
}`
