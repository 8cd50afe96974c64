package pipeline

import (
	"midend/common"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// PathEnvVar names the environment variable holding a directory searched for
// a pipeline file when none is found near the modules
const PathEnvVar = "MIDEND_PATH"

// Find looks for the pipeline file that applies to the module file or
// directory at `modulePath`.  The directory of the modules is searched first,
// then each of its enclosing directories, and finally the directory named by
// `MIDEND_PATH`.
func Find(modulePath string) (string, bool) {
	abspath, err := filepath.Abs(modulePath)
	if err != nil {
		return "", false
	}

	dir := abspath
	if finfo, err := os.Stat(abspath); err != nil || !finfo.IsDir() {
		dir = filepath.Dir(abspath)
	}

	for {
		if path, ok := checkDir(dir); ok {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	if envPath, ok := os.LookupEnv(PathEnvVar); ok {
		return checkDir(envPath)
	}

	return "", false
}

// checkDir checks whether a directory contains a pipeline file.  Only the
// presence of the `[pipeline]` table is checked here: a file that turns out
// to be invalid is reported when it is loaded.
func checkDir(dir string) (string, bool) {
	path := filepath.Join(dir, common.PipelineFileName)

	finfo, err := os.Stat(path)
	if err != nil || finfo.IsDir() {
		return "", false
	}

	// a file with the right name that is not a pipeline file (eg. broken TOML)
	// is skipped so that it does not shadow a real one further up
	tree, err := toml.LoadFile(path)
	if err != nil || !tree.Has("pipeline") {
		return "", false
	}

	return path, true
}
