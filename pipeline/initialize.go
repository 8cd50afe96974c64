package pipeline

import (
	"errors"
	"fmt"
	"io"
	"midend/common"
	"midend/passes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// Init writes the builtin pipeline as a pipeline file in `dir`.  It refuses to
// overwrite an existing file.
func Init(dir string) (string, error) {
	path := filepath.Join(dir, common.PipelineFileName)

	// check to see if a pipeline file already exists
	_, err := os.Stat(path)
	if err == nil {
		return "", errors.New("pipeline file already exists")
	}

	if !os.IsNotExist(err) {
		return "", fmt.Errorf("pipeline file error: %s", err.Error())
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating pipeline file: %s", err.Error())
	}
	defer f.Close()

	if err := Encode(f, &Pipeline{Root: GroupRoot, Groups: builtinGroups}); err != nil {
		return "", err
	}

	return path, nil
}

// Encode writes a pipeline in the pipeline file format.  The running version
// is recorded as the minimum version.
func Encode(w io.Writer, p *Pipeline) error {
	tp := &tomlPipeline{
		Root:    p.Root,
		Version: ">= " + common.MidendVersion,
	}

	for _, group := range p.Groups {
		tg := &tomlGroup{
			Name:   group.Name,
			Passes: group.Passes,
		}

		for _, dep := range group.Dependencies {
			tg.Dependencies = append(tg.Dependencies, &tomlDependency{
				Group:     dep.Group,
				Frequency: dep.Frequency.String(),
			})
		}

		tp.Groups = append(tp.Groups, tg)
	}

	if err := toml.NewEncoder(w).Encode(&tomlPipelineFile{Pipeline: tp}); err != nil {
		return fmt.Errorf("error encoding TOML %s", err.Error())
	}

	return nil
}

// Groups returns a copy of the builtin group definitions
func Groups() []*passes.Group {
	groups := make([]*passes.Group, len(builtinGroups))
	for i, group := range builtinGroups {
		copied := *group
		copied.Passes = append([]string(nil), group.Passes...)
		copied.Dependencies = append([]passes.Dependency(nil), group.Dependencies...)
		groups[i] = &copied
	}

	return groups
}
