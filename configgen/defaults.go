package configgen

// DefaultSettingsJSON hides build output and binary assets from the editor.
const DefaultSettingsJSON = `{
    "files.exclude":
    {
        "**/.DS_Store":true,
        "**/.git":true,
        "**/.gitmodules":true,
        "**/*.booproj":true,
        "**/*.pidb":true,
        "**/*.suo":true,
        "**/*.user":true,
        "**/*.userprefs":true,
        "**/*.unityproj":true,
        "**/*.dll":true,
        "**/*.exe":true,
        "**/*.pdf":true,
        "**/*.mid":true,
        "**/*.midi":true,
        "**/*.wav":true,
        "**/*.gif":true,
        "**/*.ico":true,
        "**/*.jpg":true,
        "**/*.jpeg":true,
        "**/*.png":true,
        "**/*.psd":true,
        "**/*.tga":true,
        "**/*.tif":true,
        "**/*.tiff":true,
        "**/*.3ds":true,
        "**/*.3DS":true,
        "**/*.fbx":true,
        "**/*.FBX":true,
        "**/*.lxo":true,
        "**/*.LXO":true,
        "**/*.ma":true,
        "**/*.MA":true,
        "**/*.obj":true,
        "**/*.OBJ":true,
        "**/*.asset":true,
        "**/*.cubemap":true,
        "**/*.flare":true,
        "**/*.mat":true,
        "**/*.meta":true,
        "**/*.prefab":true,
        "**/*.unity":true,
        "build/":true,
        "Build/":true,
        "Library/":true,
        "library/":true,
        "obj/":true,
        "Obj/":true,
        "ProjectSettings/":true,
        "temp/":true,
        "Temp/":true
    }
}`

// DefaultWorkspaceJSON opens the project root as the only folder.
const DefaultWorkspaceJSON = "{\n\t\"folders\": [\n\t\t{\n\t\t\t\"path\": \".\"\n\t\t}\n\t]\n}"

// DefaultOmniSharpJSON enables analyzers and .editorconfig support.
const DefaultOmniSharpJSON = `{
    "RoslynExtensionsOptions": {
        "enableRoslynAnalyzers": true,
        "enableEditorConfigSupport": true,
        "analyzeOpenDocumentsOnly": true,
        "sdkIncludePrereleases": false,
        "organizeImportsOnFormat": true,
        "threadsToUseForAnalyzers": true,
        "useModernNet": true,
        "documentAnalysisTimeoutMs": 600000
    }
}`

const DefaultEditorConfig = `# EditorConfig is awesome: http://EditorConfig.org

# top-most EditorConfig file
root = true

# 4 space indentation
[*.cs]
indent_style = space
indent_size = 4
trim_trailing_whitespace = true
`

// MarkerFileName is created on the first run. While it exists, config files are only
// written for enabled toggles.
const MarkerFileName = "VSCodeSyncDoNotDelete.txt"

const markerContent = "This file is used by vscodesync. Deleting it will cause your configuration to be overwritten."
