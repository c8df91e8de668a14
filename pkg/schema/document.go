package schema

import "encoding/json"

// Document is the typed view of one generated record: a video-generation
// prompt, its evaluation rubric and the experiment manual. The on-wire key
// spelling ("rubic") is kept as the model contract.
type Document struct {
	GenerationPrompt string `json:"generation_prompt" jsonschema_description:"Prompt describing the experiment scene for a video generation model"`
	EvaluationRubric Rubric `json:"evaluation_rubic" jsonschema_description:"Five-category rubric used to grade generated videos of this experiment"`
	Manual           string `json:"manual" jsonschema_description:"Human-readable experiment manual in markdown"`
}

// Rubric holds the five grading categories attached to one prompt.
type Rubric struct {
	PhysicalConsistency string `json:"pc_rubic" jsonschema_description:"Physical consistency: required apparatus, materials and their realistic appearance"`
	CompletePhenomenon  string `json:"cmp_rubic" jsonschema_description:"Complete phenomenon: every observable change the experiment must show, in order"`
	SpatiotemporalLogic string `json:"slr_rubic" jsonschema_description:"Spatiotemporal logic: temporal and spatial continuity between steps"`
	CausalLogic         string `json:"clr_rubic" jsonschema_description:"Causal logic: each effect follows from its cause per the underlying principle"`
	RealismIntegrity    string `json:"ri_rubic" jsonschema_description:"Realism integrity: object properties and actions obey real scientific laws"`
}

// FromMap lifts a validated document map into the typed form. Extra keys in
// the map are simply not carried over; callers that need them keep the map.
func FromMap(doc map[string]any) (Document, error) {
	var out Document
	raw, err := json.Marshal(doc)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
