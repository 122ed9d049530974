// pkg/target/module.go
package target

import (
	"fmt"
	"strings"
)

// CppStandard is a C++ language standard version
type CppStandard string

const (
	CppDefault CppStandard = "Default"
	Cpp17      CppStandard = "Cpp17"
	Cpp20      CppStandard = "Cpp20"
)

// baseModules are the engine modules the plugin always links against
var baseModules = []string{
	"Core",
	"CoreUObject",
	"Engine",
	"HeadMountedDisplay",
	"AugmentedReality",
	"Projects",
}

// ModuleRules is the build descriptor of one compiled module. Configuration
// code mutates it; the host build tool consumes it.
type ModuleRules struct {
	Name                         string      `yaml:"name" json:"name"`
	Target                       string      `yaml:"target" json:"target"`
	PublicDefinitions            []string    `yaml:"public_definitions" json:"public_definitions"`
	EnableExceptions             bool        `yaml:"enable_exceptions" json:"enable_exceptions"`
	UseUnity                     bool        `yaml:"use_unity" json:"use_unity"`
	CppStandard                  CppStandard `yaml:"cpp_standard" json:"cpp_standard"`
	PublicSystemLibraries        []string    `yaml:"public_system_libraries" json:"public_system_libraries"`
	ExternalDependencies         []string    `yaml:"external_dependencies" json:"external_dependencies"`
	RuntimeDependencies          []string    `yaml:"runtime_dependencies" json:"runtime_dependencies"`
	PrivateDependencyModuleNames []string    `yaml:"private_dependency_module_names" json:"private_dependency_module_names"`
}

// NewModuleRules returns the rules every configuration pass starts from
func NewModuleRules(name string, desc Descriptor) *ModuleRules {
	m := &ModuleRules{
		Name:        name,
		Target:      desc.String(),
		UseUnity:    true,
		CppStandard: CppDefault,
	}

	m.PrivateDependencyModuleNames = append(m.PrivateDependencyModuleNames, baseModules...)
	if desc.BuildEditor {
		m.PrivateDependencyModuleNames = append(m.PrivateDependencyModuleNames, "UnrealEd")
	}
	return m
}

// AddDefinition adds a bare or NAME=VALUE preprocessor definition
func (m *ModuleRules) AddDefinition(def string) {
	m.PublicDefinitions = appendUnique(m.PublicDefinitions, def)
}

// AddStringDefinition adds NAME="value", escaped for a C string literal
func (m *ModuleRules) AddStringDefinition(name, value string) {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	m.AddDefinition(fmt.Sprintf(`%s="%s"`, name, escaped))
}

// HasDefinition reports whether a definition with the given name is set
func (m *ModuleRules) HasDefinition(name string) bool {
	for _, def := range m.PublicDefinitions {
		if def == name || strings.HasPrefix(def, name+"=") {
			return true
		}
	}
	return false
}

// AddSystemLibraries links additional system libraries
func (m *ModuleRules) AddSystemLibraries(libs ...string) {
	for _, lib := range libs {
		m.PublicSystemLibraries = appendUnique(m.PublicSystemLibraries, lib)
	}
}

// AddExternalDependency registers a file whose changes invalidate the build
func (m *ModuleRules) AddExternalDependency(path string) {
	m.ExternalDependencies = appendUnique(m.ExternalDependencies, path)
}

// AddRuntimeDependency registers a file to ship alongside the executable
func (m *ModuleRules) AddRuntimeDependency(path string) {
	m.RuntimeDependencies = appendUnique(m.RuntimeDependencies, path)
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
