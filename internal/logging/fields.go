package logging

// Standardized attribute keys shared across components so console and JSON
// output stay greppable.
const (
	FieldComponent = "component"

	FieldTaskID = "task_id"
)
