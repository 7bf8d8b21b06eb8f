// Package manifest discovers project manifests (package.json,
// pyproject.toml, .NET project files) so reports can name the projects a
// repository contains.
package manifest

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Project describes one discovered project manifest.
type Project struct {
	Name         string            `json:"name"`
	Kind         string            `json:"kind"`
	Path         string            `json:"path"`
	Version      string            `json:"version,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// skipDirs are never descended into during discovery.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "__pycache__": true,
	"venv": true, ".venv": true, "bin": true, "obj": true,
	"dist": true, "build": true,
}

// Discover walks root and parses every manifest it recognizes. Unparseable
// manifests are skipped. Results are ordered by path.
func Discover(root string) ([]Project, error) {
	var projects []Project
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		var (
			p        Project
			parseErr error
		)
		switch {
		case d.Name() == "package.json":
			p, parseErr = parsePackageJSON(path)
		case d.Name() == "pyproject.toml":
			p, parseErr = parsePyproject(path)
		case strings.HasSuffix(d.Name(), ".csproj") || strings.HasSuffix(d.Name(), ".fsproj") || strings.HasSuffix(d.Name(), ".vbproj"):
			p, parseErr = parseDotnetProject(path)
		default:
			return nil
		}
		if parseErr != nil {
			return nil
		}
		p.Path = rel
		projects = append(projects, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover manifests: %w", err)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Path < projects[j].Path })
	return projects, nil
}

func parsePackageJSON(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, err
	}
	var pkg struct {
		Name         string            `json:"name"`
		Version      string            `json:"version"`
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return Project{}, err
	}
	return Project{
		Name:         pkg.Name,
		Kind:         "node",
		Version:      pkg.Version,
		Dependencies: pkg.Dependencies,
	}, nil
}

func parsePyproject(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, err
	}
	var py struct {
		Project struct {
			Name         string   `toml:"name"`
			Version      string   `toml:"version"`
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name    string `toml:"name"`
				Version string `toml:"version"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &py); err != nil {
		return Project{}, err
	}

	p := Project{Kind: "python", Name: py.Project.Name, Version: py.Project.Version}
	if p.Name == "" {
		p.Name = py.Tool.Poetry.Name
		p.Version = py.Tool.Poetry.Version
	}
	if len(py.Project.Dependencies) > 0 {
		p.Dependencies = make(map[string]string, len(py.Project.Dependencies))
		for _, dep := range py.Project.Dependencies {
			name, constraint := splitRequirement(dep)
			p.Dependencies[name] = constraint
		}
	}
	return p, nil
}

// splitRequirement separates a PEP 508 requirement into name and the rest.
func splitRequirement(req string) (string, string) {
	req = strings.TrimSpace(req)
	i := strings.IndexAny(req, " <>=!~[;")
	if i < 0 {
		return req, ""
	}
	return req[:i], strings.TrimSpace(req[i:])
}

func parseDotnetProject(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, err
	}
	var proj struct {
		PropertyGroups []struct {
			AssemblyName    string `xml:"AssemblyName"`
			TargetFramework string `xml:"TargetFramework"`
			Version         string `xml:"Version"`
		} `xml:"PropertyGroup"`
		ItemGroups []struct {
			PackageReferences []struct {
				Include string `xml:"Include,attr"`
				Version string `xml:"Version,attr"`
			} `xml:"PackageReference"`
		} `xml:"ItemGroup"`
	}
	if err := xml.Unmarshal(data, &proj); err != nil {
		return Project{}, err
	}

	p := Project{Kind: "dotnet"}
	for _, pg := range proj.PropertyGroups {
		if p.Name == "" {
			p.Name = pg.AssemblyName
		}
		if p.Version == "" {
			p.Version = pg.Version
		}
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for _, ig := range proj.ItemGroups {
		for _, ref := range ig.PackageReferences {
			if p.Dependencies == nil {
				p.Dependencies = make(map[string]string)
			}
			p.Dependencies[ref.Include] = ref.Version
		}
	}
	return p, nil
}
