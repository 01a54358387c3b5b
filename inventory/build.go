package inventory

import (
	"path"
	"strings"
)

// buildModules turns a snapshot into modules: predefined modules first, then assembly
// definitions in discovery order. Modules without any script are left out, like the
// editor does.
func (s *Scanner) buildModules(snap *snapshot) []*Module {
	sources := make(map[string][]string)
	for _, asset := range snap.assets {
		if !strings.EqualFold(path.Ext(asset), ".cs") {
			continue
		}
		if owner := snap.owner(asset); owner != "" {
			sources[owner] = append(sources[owner], asset)
		}
	}

	assetSet := make(map[string]struct{}, len(snap.assets))
	for _, asset := range snap.assets {
		assetSet[strings.ToLower(asset)] = struct{}{}
	}

	s.mu.Lock()
	apiLevel := s.apiLevel
	s.mu.Unlock()

	var modules []*Module
	byName := make(map[string]*Module)
	newModule := func(name string, dir string) *Module {
		module := &Module{
			Name:        name,
			SourceFiles: sources[name],
			OutputPath:  OutputPathFor(name),
			Options: CompilerOptions{
				LanguageVersion:       s.options.LanguageVersion,
				RulesetPath:           s.options.RulesetPath,
				ApiCompatibilityLevel: apiLevel,
				ResponseFiles:         responseFilesFor(assetSet, dir),
			},
		}
		modules = append(modules, module)
		byName[name] = module
		return module
	}

	for _, name := range predefinedNames {
		if len(sources[name]) == 0 {
			continue
		}
		module := newModule(name, "")
		module.CompiledReferences = s.compiledReferences(snap, nil, isPredefinedEditor(name))
	}
	for _, def := range snap.definitions {
		if len(sources[def.Name]) == 0 {
			continue
		}
		module := newModule(def.Name, def.dir())
		module.Options.AllowUnsafeCode = def.AllowUnsafeCode
		module.Defines = s.versionDefines(snap, def)
		module.CompiledReferences = s.compiledReferences(snap, def, def.editorOnly())
	}

	// References are linked once every module exists.
	for _, module := range modules {
		def := snap.byName[strings.ToLower(module.Name)]
		if def != nil {
			module.References = definitionReferences(snap, def, byName)
			continue
		}
		module.References = predefinedReferences(module.Name, snap, byName)
	}
	return modules
}

// definitionReferences resolves the references of an assembly definition, given by
// name or as "GUID:<guid>".
func definitionReferences(snap *snapshot, def *definition, byName map[string]*Module) []*Module {
	var refs []*Module
	seen := map[string]bool{def.Name: true}
	for _, ref := range def.References {
		target := snap.byName[strings.ToLower(ref)]
		if guid, ok := cutPrefixFold(ref, "GUID:"); ok {
			target = snap.byGUID[strings.ToLower(guid)]
		}
		if target == nil || seen[target.Name] {
			continue
		}
		seen[target.Name] = true
		if module, ok := byName[target.Name]; ok {
			refs = append(refs, module)
		}
	}
	return refs
}

// predefinedReferences follows the editor's fixed dependency chain between the
// predefined modules. Every predefined module also sees all auto referenced
// definitions; editor-only ones are visible to the editor modules only.
func predefinedReferences(name string, snap *snapshot, byName map[string]*Module) []*Module {
	var chain []string
	switch name {
	case AssemblyCSharp:
		chain = []string{AssemblyCSharpFirstPass}
	case AssemblyCSharpEditorFirstPass:
		chain = []string{AssemblyCSharpFirstPass}
	case AssemblyCSharpEditor:
		chain = []string{AssemblyCSharpFirstPass, AssemblyCSharp, AssemblyCSharpEditorFirstPass}
	}

	var refs []*Module
	for _, refName := range chain {
		if module, ok := byName[refName]; ok {
			refs = append(refs, module)
		}
	}

	editor := isPredefinedEditor(name)
	for _, def := range snap.definitions {
		if !def.autoReferenced() || (def.editorOnly() && !editor) {
			continue
		}
		if module, ok := byName[def.Name]; ok {
			refs = append(refs, module)
		}
	}
	return refs
}

// compiledReferences lists the engine assemblies and the precompiled assemblies a
// module compiles against. def is nil for predefined modules.
func (s *Scanner) compiledReferences(snap *snapshot, def *definition, editor bool) []string {
	var refs []string
	if def == nil || !def.NoEngineReferences {
		refs = append(refs, s.options.ReferenceAssemblies...)
	}
	for _, dll := range snap.dlls {
		if dll.editorOnly && !editor {
			continue
		}
		if def != nil && !def.allowsPrecompiled(path.Base(dll.assetPath)) {
			continue
		}
		refs = append(refs, dll.diskPath)
	}
	return refs
}

// versionDefines returns the defines of def whose package is installed. Version
// expressions are not evaluated.
func (s *Scanner) versionDefines(snap *snapshot, def *definition) []string {
	var defines []string
	for _, vd := range def.VersionDefines {
		if vd.Define == "" {
			continue
		}
		if strings.EqualFold(vd.Name, "Unity") {
			defines = append(defines, vd.Define)
			continue
		}
		if s.options.Packages.FindForAssetPath("Packages/"+vd.Name) != nil {
			defines = append(defines, vd.Define)
		}
	}
	return defines
}

func cutPrefixFold(s string, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
