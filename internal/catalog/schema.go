package catalog

// artifactSchema validates the shape of the catalog artifact before
// unmarshaling. Dimensionality consistency is checked separately since JSON
// Schema cannot express it across records.
const artifactSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "category", "location", "product_embeddings"],
    "properties": {
      "id": {"type": "integer"},
      "name": {"type": "string", "minLength": 1},
      "category": {"type": "string", "minLength": 1},
      "location": {
        "type": "object",
        "required": ["province", "city"],
        "properties": {
          "province": {"type": "string"},
          "city": {"type": "string"}
        }
      },
      "product_embeddings": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["product", "embedding"],
          "properties": {
            "product": {"type": "string"},
            "embedding": {
              "type": "array",
              "minItems": 1,
              "items": {"type": "number"}
            }
          }
        }
      },
      "product_types": {
        "type": "array",
        "items": {"type": "string"}
      },
      "hours": {"type": "string"},
      "contact": {"type": "string"}
    }
  }
}`
