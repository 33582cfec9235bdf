package command

// ParseError reports input that matched a known verb but violated its
// grammar. It fails the current command only.
type ParseError struct {
	Message string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return e.Message
}
