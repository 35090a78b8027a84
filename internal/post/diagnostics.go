package post

// Warning codes.
const (
	WarnDateMissing = "date-missing"
)

// Warning is a non-fatal finding raised while building a post.
type Warning struct {
	Code    string
	Message string
}

// Diagnostics collects warnings across a parse so the caller can report
// them once, after the fact.
type Diagnostics struct {
	warnings []Warning
}

func (d *Diagnostics) add(code, message string) {
	d.warnings = append(d.warnings, Warning{Code: code, Message: message})
}

// Warnings returns the collected warnings in the order they were raised.
func (d *Diagnostics) Warnings() []Warning {
	return d.warnings
}
