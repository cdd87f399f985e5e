// SPDX-License-Identifier: MPL-2.0

package capability

import (
	"errors"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"conanprobe/internal/gitcmd"
	"conanprobe/internal/provenance"
	"conanprobe/internal/shellwords"
)

func defaultHandlers() map[Name]Handler {
	return map[Name]Handler{
		Run:                runStandIn,
		NewConanFile:       newConanFileStandIn,
		ToolsGet:           fetchStandIn,
		ToolsDownload:      fetchStandIn,
		ToolsLoad:          loadStandIn,
		ToolsSave:          noopStandIn,
		ToolsPatch:         noopStandIn,
		ToolsReplaceInFile: noopStandIn,
		ToolsRmdir:         noopStandIn,
		ToolsCheckSha256:   noopStandIn,
		ToolsUnzip:         noopStandIn,
		OSRename:           noopStandIn,
		OSChmod:            noopStandIn,
		OSStat:             statStandIn,
		OSMkdir:            noopStandIn,
		OSMkdirAll:         noopStandIn,
		OSChdir:            chdirStandIn,
		OSRemove:           noopStandIn,
		OSRemoveAll:        noopStandIn,
		ShutilMove:         noopStandIn,
	}
}

func noopStandIn(*Environment, Call) (any, error) {
	return nil, nil
}

func loadStandIn(*Environment, Call) (any, error) {
	return "", nil
}

func statStandIn(_ *Environment, call Call) (any, error) {
	name, _ := firstString(call.Args)
	return placeholderFileInfo{name: path.Base(name)}, nil
}

func chdirStandIn(env *Environment, call Call) (any, error) {
	if dir, ok := firstString(call.Args); ok {
		env.state.Chdir(dir)
	}
	return nil, nil
}

func fetchStandIn(env *Environment, call Call) (any, error) {
	if !env.state.RecordFetch(call.Args, call.Kwargs) {
		env.logger.Debug("fetch without positional URL not recorded", "capability", call.Name)
	}
	return nil, nil
}

// runStandIn records the command line and interprets every git clone and
// checkout among its simple commands. A `cd` earlier in the same line moves
// the working directory of the commands after it.
func runStandIn(env *Environment, call Call) (any, error) {
	command, _ := firstString(call.Args)
	state := env.state
	state.RecordCommand(command)

	cwd := state.Cwd()
	if dir, ok := call.Kwargs["cwd"].(string); ok {
		cwd = provenance.JoinDir(cwd, dir)
	}

	cmds, err := shellwords.Split(command)
	if err != nil {
		state.Fail(err)
		return nil, err
	}

	for _, c := range cmds {
		switch {
		case c.Name() == "cd":
			if len(c.Args) > 1 {
				cwd = provenance.JoinDir(cwd, c.Args[1])
			}
		case path.Base(c.Name()) == env.vcsTool:
			if err := env.interpretGit(cwd, c.Args); err != nil {
				state.Fail(err)
				return nil, err
			}
		}
	}
	return nil, nil
}

func (e *Environment) interpretGit(cwd string, tokens []string) error {
	inv, err := gitcmd.Parse(e.vcsTool, tokens)
	if err != nil {
		return err
	}
	dir := provenance.JoinDir(cwd, inv.Dir)

	switch inv.Subcommand {
	case gitcmd.SubcommandClone:
		target, err := inv.Clone()
		if err != nil {
			e.logger.Warn("git clone not recorded", "error", err)
			return nil
		}
		rec := e.state.RecordClone(dir, target.URL, target.Directory, target.Branch)
		e.logger.Debug("recorded clone", "url", rec.URL, "path", rec.Path, "cwd", rec.Cwd)
	case gitcmd.SubcommandCheckout:
		rev, err := inv.Revision()
		if err != nil {
			e.logger.Warn("git checkout not recorded", "error", err)
			return nil
		}
		rec, err := e.state.RecordCheckout(dir, rev)
		if err != nil {
			return err
		}
		e.logger.Debug("recorded checkout", "name", rec.Name, "rev", rev)
	default:
		e.logger.Debug("git subcommand ignored", "subcommand", inv.Subcommand)
	}
	return nil
}

// newConanFileStandIn seeds the fake version and an empty source entry for
// it, then merges conandata.yml when configured. When conandata.yml defines
// exactly one source version, that version replaces the fake one.
func newConanFileStandIn(env *Environment, _ Call) (any, error) {
	cf := &ConanFile{
		Version: env.fakeVersion,
		ConanData: ConanData{
			"sources": {env.fakeVersion: Kwargs{}},
		},
		env: env,
	}
	if env.conanDataPath == "" {
		return cf, nil
	}

	data, err := loadConanData(env.conanDataPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cf, nil
		}
		return nil, err
	}
	for section, versions := range data {
		if cf.ConanData[section] == nil {
			cf.ConanData[section] = map[string]Kwargs{}
		}
		for version, entry := range versions {
			cf.ConanData[section][version] = entry
		}
	}
	if sources := data["sources"]; len(sources) == 1 {
		for version := range sources {
			cf.Version = version
		}
	}
	env.logger.Debug("merged conandata", "path", env.conanDataPath, "version", cf.Version)
	return cf, nil
}

// loadConanData reads a conandata.yml. Entries that are not mappings, such
// as patch lists, are skipped.
func loadConanData(filename string) (ConanData, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var doc map[string]map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	data := ConanData{}
	for section, versions := range doc {
		for version, entry := range versions {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if data[section] == nil {
				data[section] = map[string]Kwargs{}
			}
			data[section][version] = Kwargs(m)
		}
	}
	return data, nil
}

func firstString(args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok
}
