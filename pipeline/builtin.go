package pipeline

import (
	"midend/check"
	"midend/common"
	"midend/generate"
	"midend/hoist"
	"midend/passes"
)

// Names of the builtin groups
const (
	GroupNilCheck = "ds-nilchk"
	GroupAcyclic  = "ds-acyclic"
	GroupValidate = "g0"
	GroupFlatten  = "flatten"
	GroupLink     = "link"
	GroupRoot     = common.RootGroupName
)

// builtinGroups is the canonical pipeline.  The root group is the only group a
// driver calls: it has no passes of its own and lists the phases in order.
// `g0` is reached through `flatten` rather than from the root directly.
var builtinGroups = []*passes.Group{
	{
		Name:   GroupNilCheck,
		Passes: []string{check.NilCheckName},
	},
	{
		Name:         GroupAcyclic,
		Passes:       []string{check.AcyclicName},
		Dependencies: []passes.Dependency{{Group: GroupNilCheck, Frequency: passes.Once}},
	},
	{
		Name: GroupValidate,
		Dependencies: []passes.Dependency{
			{Group: GroupNilCheck, Frequency: passes.Once},
			{Group: GroupAcyclic, Frequency: passes.Once},
		},
	},
	{
		Name:         GroupFlatten,
		Passes:       []string{hoist.PassName},
		Dependencies: []passes.Dependency{{Group: GroupValidate, Frequency: passes.Once}},
	},
	{
		// hoisting rewrites slots, so the link phase always re-validates
		Name:   GroupLink,
		Passes: []string{generate.LinkSymbolsName},
		Dependencies: []passes.Dependency{
			{Group: GroupFlatten, Frequency: passes.Once},
			{Group: GroupAcyclic, Frequency: passes.Always},
		},
	},
	{
		Name: GroupRoot,
		Dependencies: []passes.Dependency{
			{Group: GroupFlatten, Frequency: passes.Once},
			{Group: GroupLink, Frequency: passes.Once},
		},
	},
}

// RegisterPasses registers every builtin pass
func RegisterPasses(reg *passes.Registry) {
	reg.RegisterPass(check.NilCheckName, check.NilCheck)
	reg.RegisterPass(check.AcyclicName, check.Acyclic)
	reg.RegisterPass(hoist.PassName, hoist.Transform)
	reg.RegisterPass(generate.LinkSymbolsName, generate.LinkSymbols)
}

// RegisterBuiltins registers every builtin pass and the canonical groups
func RegisterBuiltins(reg *passes.Registry) {
	RegisterPasses(reg)

	for _, group := range builtinGroups {
		reg.RegisterGroup(group.Name, group.Passes, group.Dependencies)
	}
}

// NewRegistry creates a registry holding the builtin pipeline
func NewRegistry() *passes.Registry {
	reg := passes.NewRegistry()
	RegisterBuiltins(reg)
	return reg
}
