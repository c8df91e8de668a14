package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var DocumentSchema = generateSchema[Document]()

// StructuredOutputsResponseFormat asks OpenAI-compatible endpoints to emit the
// document shape directly. Providers without structured-output support ignore
// it, which is why the repair pipeline still runs on every reply.
func StructuredOutputsResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "experiment_document",
		Description: openai.String("Generation prompt, evaluation rubric and manual for one science experiment"),
		Schema:      DocumentSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
