package logging

// LogMessage is the interface for all messages handled by the logger
type LogMessage interface {
	isError() bool
	display()
}

// PassMessage is a message produced while running a pass on a module
type PassMessage struct {
	ModName    string
	PassName   string
	Status     string
	Diagnostic string
	IsError    bool
}

func (pm *PassMessage) isError() bool {
	return pm.IsError
}

// ModuleMessage is a message about loading or writing a module file
type ModuleMessage struct {
	ModName string
	Message string
	IsError bool
}

func (mm *ModuleMessage) isError() bool {
	return mm.IsError
}

// ConfigError is an error in the pipeline or tool configuration
type ConfigError struct {
	Kind    string
	Message string
}

func (ce *ConfigError) isError() bool {
	return true
}
