package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/extkit-dev/extkit/internal/manifest"
)

// ErrDestinationExists is returned when the target path is already taken.
var ErrDestinationExists = errors.New("destination already exists")

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Name         string // e.g., "my-ext"
	Runtime      string // "js" or "node"
	CLIName      string // e.g., "extkit"
	EnvPrefix    string // e.g., "EXTKIT"
	ManifestFile string // e.g., "extkit.toml"
	Date         string // YYYY-MM-DD
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	Name      string
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewScaffoldData creates a ScaffoldData with host identity fields populated.
func NewScaffoldData(name, runtime string) *ScaffoldData {
	if runtime == "" {
		runtime = manifest.RuntimeJS
	}
	return &ScaffoldData{
		Name:         name,
		Runtime:      runtime,
		CLIName:      branding.CLIName(),
		EnvPrefix:    branding.EnvPrefix(),
		ManifestFile: manifest.FileName,
		Date:         time.Now().Format(time.DateOnly),
	}
}

// New creates an extension at outputDir. The last path element is the
// extension name. The directory must not exist yet.
func New(outputDir, runtime string) (*Result, error) {
	name := filepath.Base(filepath.Clean(outputDir))
	if err := manifest.ValidateName(name); err != nil {
		return nil, err
	}

	if _, err := os.Lstat(outputDir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDestinationExists, outputDir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", outputDir, err)
	}

	return Generate(NewScaffoldData(name, runtime), outputDir)
}

// Generate writes the manifest and the runtime's template set into outputDir.
func Generate(data *ScaffoldData, outputDir string) (*Result, error) {
	templatesDir := path.Join("scaffolds", data.Runtime)

	// Verify template set exists in embedded FS.
	entries, err := fs.ReadDir(scaffoldFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", data.Runtime, err)
	}

	// Create output directory.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check for existing files to prevent accidental overwrites.
	existingEntries, err := os.ReadDir(outputDir)
	if err == nil && len(existingEntries) > 0 {
		return nil, fmt.Errorf("%w: %s is not empty", ErrDestinationExists, outputDir)
	}

	result := &Result{
		Name:      data.Name,
		OutputDir: outputDir,
	}

	m := manifest.New(data.Name)
	m.Runtime = data.Runtime
	manifestBytes, err := manifest.Marshal(m)
	if err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(outputDir, manifest.FileName)
	if err := os.WriteFile(manifestPath, manifestBytes, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", manifestPath, err)
	}
	result.Files = append(result.Files, manifest.FileName)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplPath := path.Join(templatesDir, entry.Name())
		tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		// Strip .tmpl extension for the output filename.
		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		outPath := filepath.Join(outputDir, outName)

		tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
	}

	// Validate the generated manifest against JSON Schema.
	valResult, valErr := manifest.ValidateFile(manifestPath)
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not validate manifest: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			result.Warnings = append(result.Warnings, msg)
		}
	}

	return result, nil
}
