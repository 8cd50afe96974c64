package pipeline

import (
	"errors"
	"fmt"
	"io/ioutil"
	"midend/common"
	"midend/logging"
	"midend/passes"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml"
)

// tomlPipelineFile represents the pipeline file as it is encoded in TOML
type tomlPipelineFile struct {
	Pipeline *tomlPipeline `toml:"pipeline"`
}

// tomlPipeline represents a pipeline as it is encoded in TOML
type tomlPipeline struct {
	Root    string       `toml:"root"`
	Version string       `toml:"midend-version,omitempty"`
	Groups  []*tomlGroup `toml:"groups"`
}

// tomlGroup represents a pass group as it is encoded in TOML
type tomlGroup struct {
	Name         string            `toml:"name"`
	Passes       []string          `toml:"passes,omitempty"`
	Dependencies []*tomlDependency `toml:"dependencies,omitempty"`
}

// tomlDependency represents a group dependency as it is encoded in TOML
type tomlDependency struct {
	Group     string `toml:"group"`
	Frequency string `toml:"frequency,omitempty"`
}

// Pipeline is a validated pipeline definition loaded from a file
type Pipeline struct {
	// Path is the file the pipeline was loaded from (empty if decoded from
	// memory)
	Path string

	// Root is the name of the group drivers should run
	Root string

	// Groups are the group definitions in file order
	Groups []*passes.Group
}

// Register registers the pipeline's groups, replacing any group of the same
// name (so a file can override the builtin definitions).  Each replacement is
// logged as a configuration warning.
func (p *Pipeline) Register(reg *passes.Registry) {
	source := p.Path
	if source == "" {
		source = "pipeline"
	}

	for _, group := range p.Groups {
		if _, err := reg.LookupGroup(group.Name); err == nil {
			logging.LogConfigWarning(source, fmt.Sprintf("group `%s` replaces an existing definition", group.Name))
		}

		reg.RegisterGroup(group.Name, group.Passes, group.Dependencies)
	}
}

// Load reads and validates a pipeline file and registers its groups in `reg`
func Load(path string, reg *passes.Registry) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	p, err := Decode(buff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p.Path = path
	p.Register(reg)
	return p, nil
}

// Decode parses and validates the contents of a pipeline file
func Decode(buff []byte) (*Pipeline, error) {
	tpf := &tomlPipelineFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return nil, err
	}

	if tpf.Pipeline == nil {
		return nil, errors.New("missing [pipeline] table")
	}

	if err := checkVersion(tpf.Pipeline.Version); err != nil {
		return nil, err
	}

	p := &Pipeline{Root: tpf.Pipeline.Root}
	if p.Root == "" {
		p.Root = common.RootGroupName
	}

	defined := make(map[string]bool)
	for _, tg := range tpf.Pipeline.Groups {
		group, err := convertGroup(tg)
		if err != nil {
			return nil, err
		}

		if defined[group.Name] {
			return nil, fmt.Errorf("group `%s` is defined more than once", group.Name)
		}
		defined[group.Name] = true

		p.Groups = append(p.Groups, group)
	}

	return p, nil
}

// checkVersion makes sure the running version satisfies the pipeline's
// version constraint (if it has one)
func checkVersion(constraint string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid midend-version `%s`: %w", constraint, err)
	}

	if !c.Check(semver.MustParse(common.MidendVersion)) {
		return fmt.Errorf("pipeline requires midend %s but this is v%s", constraint, common.MidendVersion)
	}

	return nil
}

// convertGroup converts a TOML group into a `*passes.Group`
func convertGroup(tg *tomlGroup) (*passes.Group, error) {
	if tg.Name == "" {
		return nil, errors.New("group must specify a name")
	}

	group := &passes.Group{Name: tg.Name}

	for _, passName := range tg.Passes {
		if passName == "" {
			return nil, fmt.Errorf("group `%s` lists an empty pass name", tg.Name)
		}

		group.Passes = append(group.Passes, passName)
	}

	for _, td := range tg.Dependencies {
		if td.Group == "" {
			return nil, fmt.Errorf("dependency of group `%s` must specify a group", tg.Name)
		}

		freq := passes.Once
		if td.Frequency != "" {
			var err error
			if freq, err = passes.ParseFrequency(td.Frequency); err != nil {
				return nil, fmt.Errorf("dependency `%s` of group `%s`: %w", td.Group, tg.Name, err)
			}
		}

		group.Dependencies = append(group.Dependencies, passes.Dependency{Group: td.Group, Frequency: freq})
	}

	return group, nil
}
