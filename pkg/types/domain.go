package types

// Model is one selectable completion model.
type Model struct {
	// Identifier sent to the completion endpoint.
	// example: gpt-4o-mini
	ID string `json:"id" example:"gpt-4o-mini"`
	// True for the model preselected in the form.
	// example: true
	Default bool `json:"default,omitempty" example:"true"`
}
