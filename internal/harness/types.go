package harness

import "github.com/Cult-DSP/LUSID/internal/scene"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// ErrorKind is the kind of the fatal error the run ended with, if any.
	ErrorKind string `json:"error_kind,omitempty"`

	// Diagnostics reported by the parser or converter.
	Diagnostics scene.Diagnostics `json:"diagnostics"`

	// Fingerprint of the resulting scene. Empty after a fatal error.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Scene is nil after a fatal error.
	Scene *scene.Scene `json:"-"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Errors:      []string{},
		Diagnostics: scene.Diagnostics{},
	}
}

// AddError adds a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
