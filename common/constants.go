package common

const (
	ModuleFileExtension = ".yaml"
	PipelineFileName    = "midend.toml"
	MidendVersion       = "0.1.0"
	RootGroupName       = "root"
)
