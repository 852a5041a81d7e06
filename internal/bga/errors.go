package bga

import "fmt"

// Import pipeline error taxonomy. Parse, resolution and validation errors
// are recorded per block and never abort a run; a configuration error aborts
// before any write.

// ParseError marks one undecodable fragment: a catalog row, a stats block or
// a session table. Field names the mapping entry that had no match.
type ParseError struct {
	Document string
	Block    string
	Field    string
	Msg      string
}

func (e *ParseError) Error() string {
	s := "parse " + e.Document
	if e.Block != "" {
		s += " [" + e.Block + "]"
	}
	if e.Field != "" {
		s += " field " + e.Field
	}
	return s + ": " + e.Msg
}

func NewParseError(document, block, field, format string, args ...interface{}) *ParseError {
	return &ParseError{Document: document, Block: block, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// ResolutionError marks a parsed record that references a game or player
// absent from the catalog or roster.
type ResolutionError struct {
	Player string
	Game   string
	Msg    string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve player=%q game=%q: %s", e.Player, e.Game, e.Msg)
}

func NewResolutionError(player, game, format string, args ...interface{}) *ResolutionError {
	return &ResolutionError{Player: player, Game: game, Msg: fmt.Sprintf(format, args...)}
}

// ValidationError marks a resolved record whose values violate an invariant.
type ValidationError struct {
	Player string
	Game   string
	Msg    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate player=%q game=%q: %s", e.Player, e.Game, e.Msg)
}

func NewValidationError(player, game, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Player: player, Game: game, Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError marks unusable inputs: a missing data root, an
// unreadable catalog document, a broken config file.
type ConfigurationError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ConfigurationError) Error() string {
	s := "configuration"
	if e.Path != "" {
		s += " " + e.Path
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func NewConfigurationError(path, msg string, err error) *ConfigurationError {
	return &ConfigurationError{Path: path, Msg: msg, Err: err}
}
